package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolay-makurin/pgprobe/pkg/types"
)

// VersionQuery is the only statement the probe ever sends.
const VersionQuery = "SELECT version();"

// Conn is the part of *pgx.Conn the probe needs.
type Conn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close(ctx context.Context) error
}

// Dialer opens a single connection from a connection string.
type Dialer func(ctx context.Context, connString string) (Conn, error)

// Connect is the default Dialer backed by pgx.
func Connect(ctx context.Context, connString string) (Conn, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type Prober struct {
	dial Dialer
	now  func() time.Time
}

func New(dial Dialer) *Prober {
	if dial == nil {
		dial = Connect
	}
	return &Prober{dial: dial, now: time.Now}
}

// Run opens one connection, runs VersionQuery and closes the connection.
// Failures are returned inside the Result, never as an error.
func (p *Prober) Run(ctx context.Context, connString string) types.Result {
	start := p.now()
	res := p.run(ctx, connString)
	res.FinishedAt = p.now()
	res.Duration = res.FinishedAt.Sub(start)
	return res
}

func (p *Prober) run(ctx context.Context, connString string) types.Result {
	log := slog.With("target", Redact(connString))

	log.Debug("Connecting to database")
	conn, err := p.dial(ctx, connString)
	if err != nil {
		log.Error("Database connection failed", "stage", types.StageConnect, "error", err)
		return types.Result{Stage: types.StageConnect, Err: err}
	}
	defer func() {
		// Close on a fresh context so a cancelled run still sends Terminate.
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Warn("Failed to close connection", "error", cerr)
		}
	}()

	res := types.Result{ServerVersion: serverVersion(conn)}

	if err := conn.QueryRow(ctx, VersionQuery).Scan(&res.Version); err != nil {
		log.Error("Version query failed", "stage", types.StageQuery, "error", err)
		res.Stage = types.StageQuery
		res.Err = err
		return res
	}

	log.Info("Database connection successful", "server_version", res.ServerVersion)
	return res
}

// serverVersion reads the server_version parameter sent during startup,
// when the connection exposes the underlying pgconn.
func serverVersion(conn Conn) string {
	pc, ok := conn.(interface{ PgConn() *pgconn.PgConn })
	if !ok || pc.PgConn() == nil {
		return ""
	}
	return pc.PgConn().ParameterStatus("server_version")
}

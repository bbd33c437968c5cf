package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/config"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

// Database error kinds
var (
	ErrDriverNotFound   = errors.New("database driver not found")
	ErrConnectionFailed = errors.New("database connection failed")
	ErrStatementFailed  = errors.New("statement execution failed")
)

// Dialect identifies the SQL flavour spoken by the pool.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// Scanner is implemented by *sql.Row, *sql.Rows and *QueryResult.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Provider hands out pooled connections and runs parameterized statements.
type Provider struct {
	DB           *sql.DB
	dialect      Dialect
	queryTimeout time.Duration
	logger       zerolog.Logger
}

// Option customizes a Provider.
type Option func(*Provider)

// WithQueryTimeout sets the timeout applied to calls whose context has no deadline.
func WithQueryTimeout(d time.Duration) Option {
	return func(p *Provider) { p.queryTimeout = d }
}

// WithLogger replaces the provider logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider opens and verifies a connection pool for the configured driver.
func NewProvider(cfg *config.Config) (*Provider, error) {
	lgr := logger.Component("db")

	driver := cfg.Database.Driver
	if !slices.Contains(sql.Drivers(), driver) {
		lgr.Error().Str("driver", driver).Msg("Database driver is not registered")
		return nil, fmt.Errorf("%w: %s", ErrDriverNotFound, driver)
	}

	sqlDB, err := sql.Open(driver, cfg.DSN())
	if err != nil {
		lgr.Error().Err(err).Str("driver", driver).Msg("Failed to open database pool")
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(maxLifetime)

	queryTimeout, err := time.ParseDuration(cfg.Database.QueryTimeout)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to parse query timeout: %w", err)
	}

	dialect := DialectMySQL
	if driver == config.DriverPostgres {
		dialect = DialectPostgres
	}

	p := NewProviderFromDB(sqlDB, dialect, WithQueryTimeout(queryTimeout), WithLogger(lgr))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	lgr.Info().
		Str("driver", driver).
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Database pool established")
	return p, nil
}

// NewProviderFromDB wraps an already opened pool.
func NewProviderFromDB(sqlDB *sql.DB, dialect Dialect, opts ...Option) *Provider {
	p := &Provider{
		DB:      sqlDB,
		dialect: dialect,
		logger:  logger.Component("db"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dialect returns the SQL dialect of the pool.
func (p *Provider) Dialect() Dialect {
	return p.dialect
}

// Builder returns a squirrel statement builder using the dialect's placeholders.
func (p *Provider) Builder() squirrel.StatementBuilderType {
	if p.dialect == DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Ping verifies that the database is reachable.
func (p *Provider) Ping(ctx context.Context) error {
	if err := p.DB.PingContext(ctx); err != nil {
		p.logger.Error().Err(err).Msg("Database ping failed")
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return nil
}

// Close closes the pool.
func (p *Provider) Close() error {
	if p.DB == nil {
		return nil
	}
	return p.DB.Close()
}

// withTimeout applies the default query timeout when ctx carries no deadline.
func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || p.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.queryTimeout)
}

// GetConnection checks a single connection out of the pool. The caller must
// release it with CloseConnection.
func (p *Provider) GetConnection(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.DB.Conn(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to acquire database connection")
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return conn, nil
}

// ExecuteQuery prepares and runs query with positional args. The returned result
// owns the rows, the statement and the connection; closing it releases all three.
func (p *Provider) ExecuteQuery(ctx context.Context, query string, args ...interface{}) (*QueryResult, error) {
	ctx, cancel := p.withTimeout(ctx)

	conn, err := p.GetConnection(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		p.CloseConnection(conn)
		cancel()
		return nil, p.statementError(query, err)
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		p.closeStatement(stmt)
		p.CloseConnection(conn)
		cancel()
		return nil, p.statementError(query, err)
	}

	return &QueryResult{
		Rows:     rows,
		stmt:     stmt,
		conn:     conn,
		cancel:   cancel,
		provider: p,
	}, nil
}

// ExecuteUpdate prepares and runs a data-modifying statement and returns the
// number of affected rows.
func (p *Provider) ExecuteUpdate(ctx context.Context, query string, args ...interface{}) (int64, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	conn, err := p.GetConnection(ctx)
	if err != nil {
		return 0, err
	}
	defer p.CloseConnection(conn)

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return 0, p.statementError(query, err)
	}
	defer p.closeStatement(stmt)

	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, p.statementError(query, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, p.statementError(query, err)
	}
	return affected, nil
}

// Rollback rolls tx back. Failures are logged, never returned.
func (p *Provider) Rollback(tx *sql.Tx) {
	if tx == nil {
		p.logger.Warn().Msg("Rollback requested without an active transaction")
		return
	}

	err := tx.Rollback()
	switch {
	case err == nil:
		p.logger.Info().Msg("Transaction rolled back")
	case errors.Is(err, sql.ErrTxDone):
		p.logger.Debug().Msg("Rollback skipped, transaction already finished")
	default:
		p.logger.Error().Err(err).Msg("Failed to roll back transaction")
	}
}

// CloseConnection returns conn to the pool. Nil and already closed connections
// are ignored, other failures are logged.
func (p *Provider) CloseConnection(conn *sql.Conn) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		p.logger.Error().Err(err).Msg("Failed to close database connection")
	}
}

func (p *Provider) closeStatement(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to close prepared statement")
	}
}

func (p *Provider) statementError(query string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		p.logger.Warn().Err(err).Str("query", query).Msg("Statement interrupted")
	} else {
		p.logger.Error().Err(err).Str("query", query).Msg("Statement execution failed")
	}
	return fmt.Errorf("%w: %w", ErrStatementFailed, err)
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sql.Tx) error

// WithTransaction runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func (p *Provider) WithTransaction(ctx context.Context, fn TransactionFn) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to begin transaction")
		return fmt.Errorf("%w: begin transaction: %w", ErrConnectionFailed, err)
	}

	defer func() {
		if r := recover(); r != nil {
			p.Rollback(tx)
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			p.logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

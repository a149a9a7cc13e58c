package catalog

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/logfields"

	_ "modernc.org/sqlite"
)

// SQLiteCatalog stores the metadata records of generated modules.
type SQLiteCatalog struct {
	db *sql.DB
	mu sync.RWMutex
}

// ModuleInfo summarizes one registered module.
type ModuleInfo struct {
	Name         string
	Base         string
	Symbols      int
	RegisteredAt time.Time
}

// OpenSQLite opens or creates the catalog at dbPath. Use ":memory:" for an
// in-memory catalog.
func OpenSQLite(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.CatalogError("open sqlite catalog").WithCause(err).WithContext("path", dbPath).Build()
	}
	// One connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	c := &SQLiteCatalog{db: db}
	if err := c.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.CatalogError("initialize catalog schema").WithCause(err).WithContext("path", dbPath).Build()
	}
	return c, nil
}

func (c *SQLiteCatalog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS modules (
		name TEXT PRIMARY KEY,
		base TEXT NOT NULL,
		registered_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS symbols (
		module TEXT NOT NULL,
		signature TEXT NOT NULL,
		page TEXT NOT NULL,
		anchor TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (module, signature)
	);
	CREATE INDEX IF NOT EXISTS idx_symbols_signature ON symbols(signature);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Register replaces everything known about module with pages. Generation
// is never incremental, so a module is always registered as a whole.
func (c *SQLiteCatalog) Register(ctx context.Context, module, base string, pages []Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.CatalogError("begin transaction").WithCause(err).Build()
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM symbols WHERE module = ?", module); err != nil {
		return errors.CatalogError("clear module symbols").WithCause(err).WithContext("module", module).Build()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO modules (name, base, registered_at) VALUES (?, ?, ?)",
		module, base, time.Now().Unix(),
	); err != nil {
		return errors.CatalogError("register module").WithCause(err).WithContext("module", module).Build()
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO symbols (module, signature, page, anchor, display_name, kind, summary) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return errors.CatalogError("prepare insert").WithCause(err).Build()
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range pages {
		for _, rec := range p.Records {
			if rec.Signature == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, module, rec.Signature, p.Name, rec.Anchor, rec.DisplayName, rec.Kind, rec.Summary); err != nil {
				return errors.CatalogError("insert symbol").
					WithCause(err).
					WithContext("module", module).
					WithContext("signature", rec.Signature).
					Build()
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.CatalogError("commit module").WithCause(err).WithContext("module", module).Build()
	}
	return nil
}

// LookupContext finds signature in any registered module except those
// listed in exclude. Ties between modules resolve by module name.
func (c *SQLiteCatalog) LookupContext(ctx context.Context, signature string, exclude ...string) (links.Target, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT s.module, m.base, s.page, s.anchor
		 FROM symbols s JOIN modules m ON m.name = s.module
		 WHERE s.signature = ?
		 ORDER BY s.module`,
		signature,
	)
	if err != nil {
		return links.Target{}, false, errors.CatalogError("query symbol").WithCause(err).WithContext("signature", signature).Build()
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var module string
		var t links.Target
		if err := rows.Scan(&module, &t.Base, &t.Page, &t.Anchor); err != nil {
			return links.Target{}, false, errors.CatalogError("scan symbol").WithCause(err).Build()
		}
		if contains(exclude, module) {
			continue
		}
		return t, true, nil
	}
	if err := rows.Err(); err != nil {
		return links.Target{}, false, errors.CatalogError("iterate symbols").WithCause(err).Build()
	}
	return links.Target{}, false, nil
}

// Lookup implements links.Lookup. Query errors are logged and count as misses.
func (c *SQLiteCatalog) Lookup(signature string) (links.Target, bool) {
	t, ok, err := c.LookupContext(context.Background(), signature)
	return lookupResult(signature, t, ok, err)
}

// Excluding returns a lookup that ignores the symbols of module, so a run
// never resolves its own types through a stale registration.
func (c *SQLiteCatalog) Excluding(module string) links.Lookup {
	return links.LookupFunc(func(signature string) (links.Target, bool) {
		t, ok, err := c.LookupContext(context.Background(), signature, module)
		return lookupResult(signature, t, ok, err)
	})
}

func lookupResult(signature string, t links.Target, ok bool, err error) (links.Target, bool) {
	if err != nil {
		slog.Warn("Catalog lookup failed", logfields.Signature(signature), logfields.Error(err))
		return links.Target{}, false
	}
	return t, ok
}

// Modules lists registered modules by name.
func (c *SQLiteCatalog) Modules(ctx context.Context) ([]ModuleInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT m.name, m.base, m.registered_at, COUNT(s.signature)
		 FROM modules m LEFT JOIN symbols s ON s.module = m.name
		 GROUP BY m.name, m.base, m.registered_at
		 ORDER BY m.name`)
	if err != nil {
		return nil, errors.CatalogError("query modules").WithCause(err).Build()
	}
	defer func() { _ = rows.Close() }()

	var out []ModuleInfo
	for rows.Next() {
		var info ModuleInfo
		var registered int64
		if err := rows.Scan(&info.Name, &info.Base, &registered, &info.Symbols); err != nil {
			return nil, errors.CatalogError("scan module").WithCause(err).Build()
		}
		info.RegisteredAt = time.Unix(registered, 0)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.CatalogError("iterate modules").WithCause(err).Build()
	}
	return out, nil
}

// Remove deletes module and its symbols.
func (c *SQLiteCatalog) Remove(ctx context.Context, module string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, "DELETE FROM symbols WHERE module = ?", module); err != nil {
		return errors.CatalogError("remove module symbols").WithCause(err).WithContext("module", module).Build()
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM modules WHERE name = ?", module); err != nil {
		return errors.CatalogError("remove module").WithCause(err).WithContext("module", module).Build()
	}
	return nil
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

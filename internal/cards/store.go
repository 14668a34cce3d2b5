// Package cards serves card definitions and localized string tables. The
// backing store is the standard sqlite card database (datas + texts tables);
// codes with no row degrade to opaque stubs so missing data is never fatal.
package cards

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Definition is one card's static data. Stub is set when the code had no
// database row and the definition carries nothing but the code.
type Definition struct {
	Code      uint32
	Name      string
	Desc      string
	Strings   []string
	Alias     uint32
	Type      uint64
	Atk       int
	Def       int
	Level     int
	Race      uint64
	Attribute uint32
	Stub      bool
}

// Store is a read-only card definition store with an in-memory cache and the
// string tables the protocol's packed description ids index into.
type Store struct {
	logger *zap.Logger
	db     *sql.DB

	mu      sync.RWMutex
	cache   map[uint32]Definition
	system  map[int]string
	counter map[int]string
	setname map[int]string
	victory map[int]string
}

// Open opens the sqlite card database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cards: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cards: ping database: %w", err)
	}

	if logger != nil {
		logger.Info("card database opened", zap.String("path", path))
	}
	return newStore(db, logger), nil
}

// NewStatic builds a database-less store from preloaded definitions. Used in
// tests and by embedders that fetch card data elsewhere.
func NewStatic(defs []Definition, system map[int]string, logger *zap.Logger) *Store {
	s := newStore(nil, logger)
	for _, d := range defs {
		s.cache[d.Code] = d
	}
	for id, text := range system {
		s.system[id] = text
	}
	return s
}

func newStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		logger:  logger,
		db:      db,
		cache:   make(map[uint32]Definition),
		system:  make(map[int]string),
		counter: make(map[int]string),
		setname: make(map[int]string),
		victory: make(map[int]string),
	}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Card returns the definition for a code. Unknown codes return a stub rather
// than an error; the caller renders a placeholder.
func (s *Store) Card(code uint32) Definition {
	s.mu.RLock()
	def, ok := s.cache[code]
	s.mu.RUnlock()
	if ok {
		return def
	}

	def, err := s.query(code)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("missing card data", zap.Uint32("code", code), zap.Error(err))
		}
		def = Definition{Code: code, Name: strconv.FormatUint(uint64(code), 10), Stub: true}
	}

	s.mu.Lock()
	s.cache[code] = def
	s.mu.Unlock()
	return def
}

func (s *Store) query(code uint32) (Definition, error) {
	if s.db == nil {
		return Definition{}, fmt.Errorf("no database")
	}

	def := Definition{Code: code}
	row := s.db.QueryRow(
		`SELECT d.alias, d.type, d.atk, d.def, d.level, d.race, d.attribute,
		        t.name, t.desc,
		        t.str1, t.str2, t.str3, t.str4, t.str5, t.str6, t.str7, t.str8,
		        t.str9, t.str10, t.str11, t.str12, t.str13, t.str14, t.str15, t.str16
		 FROM datas d JOIN texts t ON d.id = t.id WHERE d.id = ?`, code)

	strs := make([]sql.NullString, 16)
	dest := []any{
		&def.Alias, &def.Type, &def.Atk, &def.Def, &def.Level, &def.Race, &def.Attribute,
		&def.Name, &def.Desc,
	}
	for i := range strs {
		dest = append(dest, &strs[i])
	}
	if err := row.Scan(dest...); err != nil {
		return Definition{}, err
	}

	def.Strings = make([]string, 0, len(strs))
	for _, ns := range strs {
		def.Strings = append(def.Strings, ns.String)
	}
	return def, nil
}

// CardName returns the display name for a code, falling back to the numeric
// code for stubs.
func (s *Store) CardName(code uint32) string {
	return s.Card(code).Name
}

// SystemString looks up an entry of the system string table.
func (s *Store) SystemString(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.system[id]
	return text, ok
}

// Desc resolves a packed description id: the high bits carry a card code and
// the low 20 bits a string index. Code 0 indexes the system table; otherwise
// the index selects one of the card's effect strings.
func (s *Store) Desc(packed uint64) (string, bool) {
	code := uint32(packed >> 20)
	index := int(packed & 0xfffff)
	if code == 0 {
		return s.SystemString(index)
	}
	def := s.Card(code)
	if index < 0 || index >= len(def.Strings) || def.Strings[index] == "" {
		return "", false
	}
	return def.Strings[index], true
}

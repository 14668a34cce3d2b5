package cards

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadStringsFile reads a strings.conf table from disk into the store.
func (s *Store) LoadStringsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cards: open strings file: %w", err)
	}
	defer f.Close()
	return s.LoadStrings(f)
}

// LoadStrings parses the strings.conf format: lines of
// "!<table> <id> <text>", with # starting a comment. Unknown tables are
// skipped so newer files stay loadable.
func (s *Store) LoadStrings(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || !strings.HasPrefix(line, "!") {
			continue
		}
		fields := strings.SplitN(line[1:], " ", 3)
		if len(fields) < 3 {
			continue
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		text := fields[2]
		switch fields[0] {
		case "system":
			s.system[id] = text
		case "counter":
			s.counter[id] = text
		case "setname":
			s.setname[id] = text
		case "victory":
			s.victory[id] = text
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cards: read strings: %w", err)
	}
	return nil
}

// CounterString looks up a counter name.
func (s *Store) CounterString(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.counter[id]
	return text, ok
}

// SetName looks up an archetype set name by its setcode.
func (s *Store) SetName(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.setname[id]
	return text, ok
}

// VictoryString looks up a victory-condition description.
func (s *Store) VictoryString(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.victory[id]
	return text, ok
}

// This file is part of cdsplit.
//
// cdsplit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// cdsplit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with cdsplit.  If not, see <https://www.gnu.org/licenses/>.

package settings

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/cdsplit/cdsplit/curated"
)

// Sentinal error patterns
const (
	FileError   = "settings: %s: %v"
	SchemaError = "settings: %s: invalid: %v"
)

// schema for the settings file. every field is optional. a missing field takes
// the default value. unknown fields are rejected
func (s *Settings) schema() string {
	var b strings.Builder
	b.WriteString("close({\n")
	for _, e := range s.entries {
		b.WriteString("\t")
		b.WriteString(e.key)
		b.WriteString("?: bool\n")
	}
	b.WriteString("})")
	return b.String()
}

// Refresh reloads the settings file if it has changed since it was last
// loaded. If the file has been removed the settings return to their default
// values. Command line overrides are always reapplied.
//
// When loading fails the current settings are left as they are.
func (s *Settings) Refresh() error {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.path == "" {
		return nil
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return curated.Errorf(FileError, s.path, err)
		}

		// file has been removed since the last load
		if !s.modTime.IsZero() {
			s.modTime = time.Time{}
			s.defaults()
			s.applyOverrides()
		}
		return nil
	}

	if info.ModTime().Equal(s.modTime) {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return curated.Errorf(FileError, s.path, err)
	}

	values, err := s.decode(data)
	if err != nil {
		return err
	}

	s.modTime = info.ModTime()
	s.defaults()
	for k, v := range values {
		_ = s.lookup(k).Set(v)
	}
	s.applyOverrides()

	return nil
}

// decode settings file data. the returned map only contains the keys present
// in the data
func (s *Settings) decode(data []byte) (map[string]bool, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(s.schema())
	if err := schema.Err(); err != nil {
		return nil, curated.Errorf(SchemaError, s.path, err)
	}

	value := ctx.CompileBytes(data, cue.Filename(s.path))
	if err := value.Err(); err != nil {
		return nil, curated.Errorf(FileError, s.path, err)
	}

	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, curated.Errorf(SchemaError, s.path, err)
	}

	var values map[string]bool
	if err := value.Decode(&values); err != nil {
		return nil, curated.Errorf(SchemaError, s.path, err)
	}

	return values, nil
}

// Save writes the current settings to the settings file.
func (s *Settings) Save() error {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.path == "" {
		return nil
	}

	var b bytes.Buffer
	if err := s.Write(&b); err != nil {
		return curated.Errorf(FileError, s.path, err)
	}

	if err := os.WriteFile(s.path, b.Bytes(), 0600); err != nil {
		return curated.Errorf(FileError, s.path, err)
	}

	// update modification time so that the next Refresh() doesn't reload
	// the file we've just written
	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
	}

	return nil
}

package tao

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	errMissingKey = errors.New("missing key")

	// ErrEngine wraps error text reported by the engine itself.
	ErrEngine = errors.New("engine error")
)

// Tao responses are semicolon-delimited lines. Parameter-style commands
// emit `name;TYPE;settable;value` per line; array-style commands emit bare
// field rows. Fields never contain semicolons, so the lexer only needs to
// tell field text and separators apart.
var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Semi", Pattern: `;`},
	{Name: "Field", Pattern: `[^;\r\n]+`},
})

// paramLine is one `name;TYPE;settable;value...` line. The settable flag
// and the value may be empty; values may themselves contain semicolons
// (ENUM lists), so everything after the third separator is collected as
// raw tokens and rejoined.
type paramLine struct {
	Name     string   `parser:"@Field Semi"`
	Kind     string   `parser:"@Field Semi"`
	Settable string   `parser:"(@Field)? Semi"`
	Rest     []string `parser:"(@Field | @Semi)*"`
}

// rowLine is one bare data row, fields kept as raw tokens so that empty
// fields between adjacent semicolons survive.
type rowLine struct {
	Parts []string `parser:"(@Field | @Semi)+"`
}

var (
	paramParser = participle.MustBuild[paramLine](
		participle.Lexer(lineLexer),
		participle.UseLookahead(2),
	)
	rowParser = participle.MustBuild[rowLine](
		participle.Lexer(lineLexer),
	)
)

// Param is one typed parameter reported by the engine.
type Param struct {
	Name     string
	Kind     string // STR, REAL, INT, LOGIC, ENUM, ...
	Settable bool
	Value    string
}

// Params is an ordered parameter map, preserving the engine's line order.
type Params struct {
	order []string
	byKey map[string]Param
}

// Lookup returns the raw value for name and whether it was present.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p.byKey[name]
	return v.Value, ok
}

// Names returns the parameter names in response order.
func (p Params) Names() []string { return p.order }

// Get returns the full typed parameter for name.
func (p Params) Get(name string) (Param, bool) {
	v, ok := p.byKey[name]
	return v, ok
}

// ParseParams parses a block of parameter lines into an ordered map.
// Blank lines are skipped. A later duplicate overwrites an earlier one,
// keeping the original position.
func ParseParams(lines []string) (Params, error) {
	p := Params{byKey: make(map[string]Param, len(lines))}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pl, err := paramParser.ParseString("", line)
		if err != nil {
			return Params{}, fmt.Errorf("tao: parameter line %d: %w", i+1, err)
		}
		value := joinRest(pl.Rest)
		if _, seen := p.byKey[pl.Name]; !seen {
			p.order = append(p.order, pl.Name)
		}
		p.byKey[pl.Name] = Param{
			Name:     pl.Name,
			Kind:     pl.Kind,
			Settable: strings.TrimSpace(pl.Settable) == "T",
			Value:    strings.TrimSpace(value),
		}
	}
	return p, nil
}

// ParseRow splits one array-style row into its fields, preserving empty
// fields between adjacent separators.
func ParseRow(line string) ([]string, error) {
	rl, err := rowParser.ParseString("", line)
	if err != nil {
		return nil, fmt.Errorf("tao: data row: %w", err)
	}
	return splitParts(rl.Parts), nil
}

// ParseRows converts a block of array-style lines, skipping blanks.
func ParseRows(lines []string) ([][]string, error) {
	var rows [][]string
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, err := ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("tao: row %d: %w", i+1, err)
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// joinRest rebuilds the raw value text from field and separator tokens.
func joinRest(parts []string) string {
	return strings.Join(splitParts(parts), ";")
}

// splitParts turns a token stream of fields and ";" separators into a
// field slice where consecutive separators yield empty fields.
func splitParts(parts []string) []string {
	fields := []string{""}
	for _, t := range parts {
		if t == ";" {
			fields = append(fields, "")
			continue
		}
		fields[len(fields)-1] = t
	}
	return fields
}

// checkEngineErrors scans response lines for engine-reported failures.
// Tao prefixes these with a severity tag.
func checkEngineErrors(lines []string) error {
	for _, line := range lines {
		s := strings.TrimSpace(line)
		for _, tag := range []string{"[ERROR", "[CRITICAL", "[FATAL", "ERROR:", "FATAL:"} {
			if strings.HasPrefix(s, tag) {
				return fmt.Errorf("tao: %w: %s", ErrEngine, s)
			}
		}
	}
	return nil
}

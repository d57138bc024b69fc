package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/woodpot/pkg/pot"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites pot script source before it reaches zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so option names
//     never collide with user variables.
//  2. kebab-case identifiers become snake_case (wall-thickness ->
//     wall_thickness), since zygomys reads a hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// ; and ;; comments
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// :=
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// A hyphen between identifier characters is not a minus.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Design values
// ---------------------------------------------------------------------------

// sexpDesign wraps a pot.Design so it can be returned from defpot and
// passed back as a :base.
type sexpDesign struct {
	design pot.Design
}

func (d *sexpDesign) SexpString(ps *zygo.PrintState) string {
	c := d.design.Config
	return fmt.Sprintf("(defpot %q :sides %d :radius %g :height %g :layers %d)",
		d.design.Name, c.Sides, c.Radius, c.Height, c.Layers)
}
func (d *sexpDesign) Type() *zygo.RegisteredType { return nil }

// registry collects the designs declared by one evaluation, in order.
type registry struct {
	designs []pot.Design
	index   map[string]int
	failure error // first builtin error, reported instead of the interpreter's wrapping
}

func newRegistry() *registry {
	return &registry{index: make(map[string]int)}
}

func (r *registry) add(d pot.Design) error {
	if _, dup := r.index[d.Name]; dup {
		return fmt.Errorf("design %q already defined", d.Name)
	}
	r.index[d.Name] = len(r.designs)
	r.designs = append(r.designs, d)
	return nil
}

func (r *registry) fail(err error) (zygo.Sexp, error) {
	if r.failure == nil {
		r.failure = err
	}
	return zygo.SexpNull, err
}

func (r *registry) lookup(name string) (pot.Design, bool) {
	i, ok := r.index[name]
	if !ok {
		return pot.Design{}, false
	}
	return r.designs[i], true
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A trailing keyword with no value is a flag set to true.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if _, seen := result.kw[name]; !seen {
			result.order = append(result.order, name)
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			result.kw[name] = &zygo.SexpBool{Val: true}
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer. Floats are accepted only when whole.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toDesign accepts a design value or the name of an earlier design.
func toDesign(s zygo.Sexp, reg *registry) (pot.Design, error) {
	switch v := s.(type) {
	case *sexpDesign:
		return v.design, nil
	case *zygo.SexpStr:
		d, ok := reg.lookup(v.S)
		if !ok {
			return pot.Design{}, fmt.Errorf("no design named %q", v.S)
		}
		return d, nil
	}
	return pot.Design{}, fmt.Errorf("expected design or design name, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Config options
// ---------------------------------------------------------------------------

// potOptions maps each defpot keyword to its config field.
var potOptions = map[string]func(c *pot.Config, v zygo.Sexp) error{
	"sides": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.Sides, err = toInt(v)
		return err
	},
	"height": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.Height, err = toFloat64(v)
		return err
	},
	"radius": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.Radius, err = toFloat64(v)
		return err
	},
	"layers": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.Layers, err = toInt(v)
		return err
	},
	"wall-thickness": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.WallThickness, err = toFloat64(v)
		return err
	},
	"round-edges": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.RoundEdges, err = toBool(v)
		return err
	},
	"leveled-top": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.LeveledTop, err = toBool(v)
		return err
	},
	"overlap": func(c *pot.Config, v zygo.Sexp) (err error) {
		c.Overlap, err = toFloat64(v)
		return err
	},
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the pot builtins into a zygomys environment.
// Declared designs are appended to reg.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, reg *registry) {

	// -----------------------------------------------------------------------
	// (defpot "HexPot" :sides 6 :radius 60 :wall-thickness 12 :base "Other")
	// -----------------------------------------------------------------------
	env.AddFunction("defpot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return reg.fail(fmt.Errorf("defpot requires exactly one name argument, got %d", len(pa.positional)))
		}
		potName, err := toString(pa.positional[0])
		if err != nil {
			return reg.fail(fmt.Errorf("defpot: name: %w", err))
		}
		if strings.TrimSpace(potName) == "" {
			return reg.fail(fmt.Errorf("defpot: name must not be empty"))
		}

		cfg := pot.DefaultConfig()
		if v, ok := pa.kw["base"]; ok {
			base, err := toDesign(v, reg)
			if err != nil {
				return reg.fail(fmt.Errorf("defpot %s: base: %w", potName, err))
			}
			cfg = base.Config
		}
		for _, kw := range pa.order {
			if kw == "base" {
				continue
			}
			set, ok := potOptions[kw]
			if !ok {
				return reg.fail(fmt.Errorf("defpot %s: unknown option :%s", potName, kw))
			}
			if err := set(&cfg, pa.kw[kw]); err != nil {
				return reg.fail(fmt.Errorf("defpot %s: %s: %w", potName, kw, err))
			}
		}
		if err := cfg.Validate(); err != nil {
			return reg.fail(fmt.Errorf("defpot %s: %w", potName, err))
		}

		d := pot.Design{Name: potName, Config: cfg}
		if err := reg.add(d); err != nil {
			return reg.fail(fmt.Errorf("defpot: %w", err))
		}
		return &sexpDesign{design: d}, nil
	})

	// -----------------------------------------------------------------------
	// (default-pot)
	// -----------------------------------------------------------------------
	env.AddFunction("default_pot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return reg.fail(fmt.Errorf("default-pot takes no arguments"))
		}
		return &sexpDesign{design: pot.Design{Config: pot.DefaultConfig()}}, nil
	})

	// -----------------------------------------------------------------------
	// (pot "HexPot")
	// -----------------------------------------------------------------------
	env.AddFunction("pot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return reg.fail(fmt.Errorf("pot requires a name argument"))
		}
		potName, err := toString(args[0])
		if err != nil {
			return reg.fail(fmt.Errorf("pot: name: %w", err))
		}
		d, ok := reg.lookup(potName)
		if !ok {
			return reg.fail(fmt.Errorf("pot: no design named %q", potName))
		}
		return &sexpDesign{design: d}, nil
	})
}

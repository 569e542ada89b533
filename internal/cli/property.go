package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

func (a *app) newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Manage section properties",
	}

	var (
		dataType string
		unit     string
	)
	set := &cobra.Command{
		Use:   "set <root> <section-path> <name> <value>...",
		Short: "Create a property or replace its values",
		Long: "Values are parsed as the property's data type. A new property takes the\n" +
			"type given by --type; an existing one keeps its type.",
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadWrite, func(f *pandora.File) error {
				s, err := sectionAt(f, args[1])
				if err != nil {
					return err
				}
				p, err := setProperty(s, args[2], types.DataType(dataType), args[3:])
				if err != nil {
					return fail("set property", err)
				}
				if unit != "" {
					if err := p.SetUnit(unit); err != nil {
						return fail("set unit", err)
					}
				}
				return a.printCreated(cmd, "property", p.ID())
			})
		},
	}
	set.Flags().StringVar(&dataType, "type", string(types.String), "data type of a new property: bool, int64, uint64, double, string")
	set.Flags().StringVar(&unit, "unit", "", "unit of the values")
	cmd.AddCommand(set)
	return cmd
}

// setProperty replaces the values of the named property, creating it with
// type dt when it does not exist.
func setProperty(s *pandora.Section, name string, dt types.DataType, raw []string) (*pandora.Property, error) {
	ok, err := s.HasProperty(name)
	if err != nil {
		return nil, err
	}
	if ok {
		p, err := s.GetProperty(name)
		if err != nil {
			return nil, err
		}
		if dt, err = p.DataType(); err != nil {
			return nil, err
		}
		values, err := parseValues(dt, raw)
		if err != nil {
			return nil, err
		}
		return p, p.SetValues(values...)
	}

	values, err := parseValues(dt, raw)
	if err != nil {
		return nil, err
	}
	return s.CreatePropertyWithValues(name, values...)
}

// parseValues converts command-line arguments to values of type dt.
func parseValues(dt types.DataType, raw []string) ([]types.Value, error) {
	if !types.IsValidDataType(dt) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidDataType, dt)
	}
	values := make([]types.Value, 0, len(raw))
	for _, r := range raw {
		v, err := parseValue(dt, r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a %s", types.ErrTypeMismatch, r, dt)
		}
		values = append(values, v)
	}
	return values, nil
}

func parseValue(dt types.DataType, raw string) (types.Value, error) {
	switch dt {
	case types.Bool:
		b, err := strconv.ParseBool(raw)
		return types.NewBool(b), err
	case types.Int64:
		i, err := strconv.ParseInt(raw, 10, 64)
		return types.NewInt(i), err
	case types.UInt64:
		u, err := strconv.ParseUint(raw, 10, 64)
		return types.NewUint(u), err
	case types.Double:
		f, err := strconv.ParseFloat(raw, 64)
		return types.NewDouble(f), err
	default:
		return types.NewString(raw), nil
	}
}

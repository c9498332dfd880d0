package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/datatype"
)

func newLintNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint-name <name>...",
		Short: "Check table and column names against the naming conventions",
		Long:  "Report every naming issue for each name. Exits 1 when any name has issues.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]datatype.NameReport, 0, len(args))
			bad := 0
			for _, name := range args {
				r := datatype.LintName(name)
				if !r.Valid {
					bad++
				}
				reports = append(reports, r)
			}
			if err := a.emit(cmd, reports, func(w io.Writer) error {
				for _, r := range reports {
					if r.Valid {
						fmt.Fprintf(w, "%s: ok\n", r.Name)
						continue
					}
					fmt.Fprintf(w, "%s:\n", r.Name)
					for _, issue := range r.Issues {
						fmt.Fprintf(w, "  - %s\n", issue)
					}
				}
				return nil
			}); err != nil {
				return err
			}
			if bad > 0 {
				return userError(errors.Newf("%d of %d names have issues", bad, len(args)))
			}
			return nil
		},
	}
}

// typeReport is what `types <value>` prints about one value.
type typeReport struct {
	Value    string                  `json:"value"`
	String   string                  `json:"string"`
	Chars    []charFit               `json:"chars"`
	Integer  string                  `json:"integer,omitempty"`
	Integers []datatype.IntegerCheck `json:"integers,omitempty"`
	Decimal  *datatype.DecimalCheck  `json:"decimal,omitempty"`
	Float    *datatype.Drift         `json:"float,omitempty"`
}

// charFit reports whether the value fits one character column type.
type charFit struct {
	Type string `json:"type"`
	Fits bool   `json:"fits"`
}

// charColumns are the character types every value is measured against.
var charColumns = []struct {
	name string
	n    int
}{{"CHAR", 2}, {"VARCHAR", 50}, {"VARCHAR", 255}}

type typeOverview struct {
	Strings   []datatype.Example         `json:"strings"`
	Integers  []string                   `json:"integers"`
	DateTimes []datatype.DateTimeExample `json:"datetimes"`
}

func newTypesCmd(a *app) *cobra.Command {
	var precision, scale int
	cmd := &cobra.Command{
		Use:   "types [value]",
		Short: "Recommend SQL types for a value, or show the type examples",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if precision < 1 || scale < 0 || scale > precision {
				return userError(errors.Newf("invalid DECIMAL(%d, %d)", precision, scale))
			}
			if len(args) == 0 {
				ov := overview(a)
				return a.emit(cmd, ov, func(w io.Writer) error {
					return writeOverview(w, ov)
				})
			}
			rep, err := reportValue(args[0], precision, scale)
			if err != nil {
				return sysError(err)
			}
			return a.emit(cmd, rep, func(w io.Writer) error {
				return writeTypeReport(w, rep)
			})
		},
	}
	cmd.Flags().IntVar(&precision, "precision", 7, "DECIMAL precision")
	cmd.Flags().IntVar(&scale, "scale", 2, "DECIMAL scale")
	return cmd
}

func overview(a *app) typeOverview {
	ov := typeOverview{
		Strings:   datatype.StringExamples,
		DateTimes: datatype.DateTimeExamples(a.now()),
	}
	for _, r := range datatype.IntegerRanges {
		ov.Integers = append(ov.Integers, fmt.Sprintf("%s: %s", r.Label(), r.Describe()))
	}
	return ov
}

func writeOverview(w io.Writer, ov typeOverview) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "EXAMPLE\tLENGTH\tTYPE")
	for _, ex := range ov.Strings {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", ex.Label, len([]rune(ex.Value)), ex.Recommended)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, line := range ov.Integers {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	tw = newTable(w)
	for _, d := range ov.DateTimes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Type, d.Value, d.Use)
	}
	return tw.Flush()
}

func reportValue(v string, precision, scale int) (typeReport, error) {
	rep := typeReport{Value: v, String: datatype.RecommendString(v)}
	for _, c := range charColumns {
		rep.Chars = append(rep.Chars, charFit{
			Type: fmt.Sprintf("%s(%d)", c.name, c.n),
			Fits: datatype.CharFits(v, c.n),
		})
	}

	if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
		rep.Integer = datatype.RecommendInteger(n)
	}
	for _, r := range datatype.IntegerRanges {
		chk, err := datatype.CheckInteger(r.Name, r.Signed, v)
		if errors.Is(err, datatype.ErrNotInteger) {
			break
		}
		if err != nil {
			return typeReport{}, err
		}
		rep.Integers = append(rep.Integers, chk)
	}

	if dec, err := datatype.CheckDecimal(v, precision, scale); err == nil {
		rep.Decimal = &dec
		if d, err := datatype.FloatDrift(v); err == nil {
			rep.Float = &d
		}
	}
	return rep, nil
}

func writeTypeReport(w io.Writer, rep typeReport) error {
	fmt.Fprintf(w, "value:   %q\n", rep.Value)
	fmt.Fprintf(w, "string:  %s\n", rep.String)
	for _, c := range rep.Chars {
		if !c.Fits {
			fmt.Fprintf(w, "         too long for %s\n", c.Type)
		}
	}
	if rep.Integer != "" {
		fmt.Fprintf(w, "integer: %s\n", rep.Integer)
	}
	if len(rep.Integers) > 0 {
		tw := newTable(w)
		for _, c := range rep.Integers {
			fits := "fits"
			if !c.Fits {
				fits = "out of range"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Type, c.Range, fits)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if d := rep.Decimal; d != nil {
		note := ""
		if d.Rounded {
			note = " (rounded)"
		}
		if !d.Fits {
			note += " (does not fit)"
		}
		fmt.Fprintf(w, "decimal: %s stores %s%s\n", d.Type, d.Stored, note)
	}
	if f := rep.Float; f != nil {
		fmt.Fprintf(w, "float:   %s is stored as %s (error %g)\n", f.Exact, f.Float32, f.Error)
	}
	return nil
}

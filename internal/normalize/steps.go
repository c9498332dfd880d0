package normalize

import "github.com/mesh-intelligence/schemalab/pkg/types"

// Step is one stage of the normalization walk-through.
type Step struct {
	Number      int                    `json:"number"`
	Form        string                 `json:"form"`
	Description string                 `json:"description"`
	Tables      map[string]int         `json:"tables"`
	Redundancy  map[string]int         `json:"redundancy"`
	Rows        map[string][]types.Row `json:"rows,omitempty"`
}

// Redundancy counts cells in column that repeat a value already seen in an
// earlier row. Zero means every value is stored once.
func Redundancy(rows []types.Row, column string) int {
	seen := make(map[string]bool, len(rows))
	dup := 0
	for _, r := range rows {
		v, ok := r[column]
		if !ok {
			continue
		}
		key := v.Kind().String() + ":" + v.String()
		if seen[key] {
			dup++
			continue
		}
		seen[key] = true
	}
	return dup
}

// Steps walks employees_unnormalized through the four demo stages. The
// normalized stages are derived from the data, not read from the store.
func Steps(r Reader) ([]Step, error) {
	employees, err := Unnormalized(r)
	if err != nil {
		return nil, err
	}

	unf := make([]types.Row, 0, len(employees))
	for _, e := range employees {
		skills := ""
		for i, s := range e.Skills {
			if i > 0 {
				skills += SkillSeparator
			}
			skills += s
		}
		unf = append(unf, types.Row{
			"employee_id":     types.Number(float64(e.EmployeeID)),
			"employee_name":   types.Text(e.EmployeeName),
			"department_id":   types.Number(float64(e.DepartmentID)),
			"department_name": types.Text(e.DepartmentName),
			"skills":          types.Text(skills),
		})
	}

	flat := FirstNormalForm(employees)
	first := make([]types.Row, 0, len(flat))
	for _, f := range flat {
		first = append(first, types.Row{
			"employee_id":     types.Number(float64(f.EmployeeID)),
			"employee_name":   types.Text(f.EmployeeName),
			"department_id":   types.Number(float64(f.DepartmentID)),
			"department_name": types.Text(f.DepartmentName),
			"skill":           types.Text(f.Skill),
		})
	}

	d := Decompose(flat)
	emp := ordered(d.Employees)
	dept := ordered(d.Departments)
	skills := ordered(d.EmployeeSkills)
	split := map[string][]types.Row{
		types.TableEmployees:      emp,
		types.TableDepartments:    dept,
		types.TableEmployeeSkills: skills,
	}
	splitCounts := map[string]int{
		types.TableEmployees:      len(emp),
		types.TableDepartments:    len(dept),
		types.TableEmployeeSkills: len(skills),
	}
	splitRedundancy := map[string]int{
		"employee_name":   Redundancy(emp, "employee_name"),
		"department_name": Redundancy(dept, "department_name"),
	}

	return []Step{
		{
			Number:      1,
			Form:        "UNF",
			Description: "unnormalized: the skills column holds several values, so searching and counting by skill is hard",
			Tables:      map[string]int{types.TableEmployeesUnnormalized: len(unf)},
			Redundancy: map[string]int{
				"employee_name":   Redundancy(unf, "employee_name"),
				"department_name": Redundancy(unf, "department_name"),
			},
			Rows: map[string][]types.Row{types.TableEmployeesUnnormalized: unf},
		},
		{
			Number:      2,
			Form:        "1NF",
			Description: "first normal form: every cell is atomic, but employee_name and department_name now repeat",
			Tables:      map[string]int{types.TableEmployeesUnnormalized: len(first)},
			Redundancy: map[string]int{
				"employee_name":   Redundancy(first, "employee_name"),
				"department_name": Redundancy(first, "department_name"),
			},
			Rows: map[string][]types.Row{types.TableEmployeesUnnormalized: first},
		},
		{
			Number:      3,
			Form:        "2NF",
			Description: "second normal form: skills move to employee_skills keyed by (employee_id, skill)",
			Tables:      splitCounts,
			Redundancy:  splitRedundancy,
			Rows:        split,
		},
		{
			Number:      4,
			Form:        "3NF",
			Description: "third normal form (BCNF): department_name depends only on department_id and lives in departments",
			Tables:      splitCounts,
			Redundancy:  splitRedundancy,
			Rows:        split,
		},
	}, nil
}

// ordered returns rows sorted by row id using the store's ordering.
func ordered(rows map[string]types.Row) []types.Row {
	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	types.SortRowIDs(ids)
	out := make([]types.Row, len(ids))
	for i, id := range ids {
		out[i] = rows[id]
	}
	return out
}

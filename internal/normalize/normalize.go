// Package normalize reshapes the denormalized employee table into first,
// second, and third normal form.
//
// The pipeline is:
//
//	employees_unnormalized --FirstNormalForm--> one row per (employee, skill)
//	                       --Decompose-------> employees, departments, employee_skills
//
// Apply writes the decomposed tables back into a store.
package normalize

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// SkillSeparator splits the multi-valued skills cell.
const SkillSeparator = ", "

// Reader is the read half of the table store.
type Reader interface {
	GetRowIDs(table string) []string
	GetRow(table, rowID string) (types.Row, bool)
}

// Writer replaces whole tables.
type Writer interface {
	SetTable(table string, rows map[string]types.Row) error
}

// Employee is one row of the unnormalized employee table.
type Employee struct {
	EmployeeID     int64    `json:"employee_id"`
	EmployeeName   string   `json:"employee_name"`
	DepartmentID   int64    `json:"department_id"`
	DepartmentName string   `json:"department_name"`
	Skills         []string `json:"skills"`
}

// FlatRow is a first-normal-form row: every cell holds a single value.
type FlatRow struct {
	EmployeeID     int64  `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Skill          string `json:"skill"`
}

// Decomposed holds the three tables of the normalized design, keyed by row id.
type Decomposed struct {
	Employees      map[string]types.Row
	Departments    map[string]types.Row
	EmployeeSkills map[string]types.Row
}

// ErrMissingCell is returned when an unnormalized row lacks a required cell.
var ErrMissingCell = errors.New("unnormalized row is missing a cell")

// Unnormalized reads employees_unnormalized in row order.
func Unnormalized(r Reader) ([]Employee, error) {
	var out []Employee
	for _, id := range r.GetRowIDs(types.TableEmployeesUnnormalized) {
		row, ok := r.GetRow(types.TableEmployeesUnnormalized, id)
		if !ok {
			continue
		}
		e, err := employeeFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %s", id)
		}
		out = append(out, e)
	}
	return out, nil
}

// FirstNormalForm expands the multi-valued skills cell into one row per
// skill. An employee with no skills keeps a single row with an empty skill.
func FirstNormalForm(employees []Employee) []FlatRow {
	var out []FlatRow
	for _, e := range employees {
		base := FlatRow{
			EmployeeID:     e.EmployeeID,
			EmployeeName:   e.EmployeeName,
			DepartmentID:   e.DepartmentID,
			DepartmentName: e.DepartmentName,
		}
		if len(e.Skills) == 0 {
			out = append(out, base)
			continue
		}
		for _, s := range e.Skills {
			row := base
			row.Skill = s
			out = append(out, row)
		}
	}
	return out
}

// Decompose splits first-normal-form rows into employees, departments, and
// employee_skills. The department name moves to its own table because it
// depends on department_id, not on the employee.
func Decompose(rows []FlatRow) Decomposed {
	d := Decomposed{
		Employees:      map[string]types.Row{},
		Departments:    map[string]types.Row{},
		EmployeeSkills: map[string]types.Row{},
	}
	for _, r := range rows {
		empID := fmt.Sprint(r.EmployeeID)
		d.Employees[empID] = types.Row{
			"employee_id":   types.Number(float64(r.EmployeeID)),
			"employee_name": types.Text(r.EmployeeName),
			"department_id": types.Number(float64(r.DepartmentID)),
		}
		d.Departments[fmt.Sprint(r.DepartmentID)] = types.Row{
			"department_id":   types.Number(float64(r.DepartmentID)),
			"department_name": types.Text(r.DepartmentName),
		}
		if r.Skill == "" {
			continue
		}
		d.EmployeeSkills[SkillRowID(r.EmployeeID, r.Skill)] = types.Row{
			"employee_id": types.Number(float64(r.EmployeeID)),
			"skill":       types.Text(r.Skill),
		}
	}
	return d
}

// SkillRowID is the composite row id of an employee_skills row.
func SkillRowID(employeeID int64, skill string) string {
	return fmt.Sprintf("%d-%s", employeeID, skill)
}

// Apply runs the whole pipeline against r and writes the normalized tables
// into w, parents first.
func Apply(r Reader, w Writer) (Decomposed, error) {
	employees, err := Unnormalized(r)
	if err != nil {
		return Decomposed{}, err
	}
	d := Decompose(FirstNormalForm(employees))
	for _, t := range []struct {
		name string
		rows map[string]types.Row
	}{
		{types.TableDepartments, d.Departments},
		{types.TableEmployees, d.Employees},
		{types.TableEmployeeSkills, d.EmployeeSkills},
	} {
		if err := w.SetTable(t.name, t.rows); err != nil {
			return Decomposed{}, errors.Wrapf(err, "write %s", t.name)
		}
	}
	return d, nil
}

func employeeFromRow(row types.Row) (Employee, error) {
	id, ok := row["employee_id"].Float()
	if !ok {
		return Employee{}, errors.Wrap(ErrMissingCell, "employee_id")
	}
	name, ok := row["employee_name"].Str()
	if !ok {
		return Employee{}, errors.Wrap(ErrMissingCell, "employee_name")
	}
	deptID, ok := row["department_id"].Float()
	if !ok {
		return Employee{}, errors.Wrap(ErrMissingCell, "department_id")
	}
	deptName, _ := row["department_name"].Str()
	skills, _ := row["skills"].Str()
	return Employee{
		EmployeeID:     int64(id),
		EmployeeName:   name,
		DepartmentID:   int64(deptID),
		DepartmentName: deptName,
		Skills:         splitSkills(skills),
	}, nil
}

func splitSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, SkillSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

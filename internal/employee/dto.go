package employee

import "strings"

type SaveEmployeeDTO struct {
	EmployeeID string `json:"employeeId" mapstructure:"employeeId"`
	UserEmail  string `json:"userEmail" mapstructure:"userEmail"`
	Position   string `json:"position" mapstructure:"position"`
	DeptID     string `json:"deptId" mapstructure:"deptId"`
	HireDate   string `json:"hireDate" mapstructure:"hireDate"`
}

func (d SaveEmployeeDTO) Normalize() SaveEmployeeDTO {
	d.EmployeeID = strings.TrimSpace(d.EmployeeID)
	d.UserEmail = strings.TrimSpace(d.UserEmail)
	d.Position = strings.TrimSpace(d.Position)
	d.DeptID = strings.TrimSpace(d.DeptID)
	d.HireDate = strings.TrimSpace(d.HireDate)
	return d
}

type DeleteEmployeeDTO struct {
	ID string `json:"id" mapstructure:"id"`
}

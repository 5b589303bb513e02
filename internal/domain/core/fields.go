package core

import "kiwihr/internal/domain/auth"

// FilterEmployeeFields strips sensitive payroll identifiers from an employee
// record unless the viewer is entitled to them. Visibility hides data rather
// than erroring; the record itself was already authorized for viewing.
func FilterEmployeeFields(emp *Employee, viewer *auth.Identity, isSelf bool) {
	if emp == nil {
		return
	}
	if isSelf || auth.HasAnyRole(viewer, auth.RoleSuperAdmin, auth.RoleHRManager, auth.RolePayrollAdmin) {
		return
	}
	emp.IRDNumber = ""
	emp.BankAccount = ""
}

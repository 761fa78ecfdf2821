// Package authz holds the pure authorization rules for adoption
// applications. Decisions depend only on the caller's identity, role and the
// record in question; callers translate a deny into CodeForbidden so
// existence is never leaked to outsiders.
package authz

import (
	"homeward/internal/application/models"
	id "homeward/pkg/domain"
)

// CanCreate reports whether the role may submit adoption applications.
func CanCreate(role id.Role) bool {
	return role == id.RoleAdopter || role == id.RoleFoster
}

// CanManage reports whether the caller is the shelter that owns the
// application. Status transitions, notes and meet-and-greet scheduling all
// require this.
func CanManage(userID id.UserID, app *models.Application) bool {
	return userID == app.ShelterID
}

// CanWithdraw reports whether the caller is the applicant. Withdrawal is the
// one status change a shelter cannot make.
func CanWithdraw(userID id.UserID, app *models.Application) bool {
	return userID == app.ApplicantID
}

// CanRead reports whether the caller participates in the application.
func CanRead(userID id.UserID, app *models.Application) bool {
	return userID == app.ApplicantID || userID == app.ShelterID
}

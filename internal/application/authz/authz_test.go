package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"homeward/internal/application/models"
	id "homeward/pkg/domain"
)

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(id.RoleAdopter))
	assert.True(t, CanCreate(id.RoleFoster))
	assert.False(t, CanCreate(id.RoleShelter))
	assert.False(t, CanCreate(id.Role("")))
}

func TestParticipantRules(t *testing.T) {
	applicant := id.UserID(uuid.New())
	shelter := id.UserID(uuid.New())
	stranger := id.UserID(uuid.New())
	app := &models.Application{ApplicantID: applicant, ShelterID: shelter}

	assert.True(t, CanManage(shelter, app))
	assert.False(t, CanManage(applicant, app))
	assert.False(t, CanManage(stranger, app))

	assert.True(t, CanWithdraw(applicant, app))
	assert.False(t, CanWithdraw(shelter, app))

	assert.True(t, CanRead(applicant, app))
	assert.True(t, CanRead(shelter, app))
	assert.False(t, CanRead(stranger, app))
}

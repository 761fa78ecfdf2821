package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"homeward/internal/application/models"
	appstore "homeward/internal/application/store"
	petstore "homeward/internal/pet/store/mocks"
	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
	"homeward/pkg/requestcontext"
)

// TestCascadeStoreFailureRollsBack drives the pet store to fail mid-cascade
// and verifies the application never rests approved.
func TestCascadeStoreFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	pets := petstore.NewMockStore(ctrl)
	apps := appstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := New(apps, pets, logger)

	shelterID := id.UserID(uuid.New())
	app := models.NewApplication(
		id.ApplicationID(uuid.New()),
		id.PetID(uuid.New()),
		id.UserID(uuid.New()),
		shelterID,
		[]byte(`{}`),
		"",
		time.Now(),
	)
	require.NoError(t, apps.CreateIfNoActive(context.Background(), app))

	pets.EXPECT().
		TrySetStatus(gomock.Any(), app.PetID, gomock.Any(), gomock.Any()).
		Return(false, errors.New("connection reset"))

	ctx := requestcontext.WithRole(requestcontext.WithUserID(context.Background(), shelterID), id.RoleShelter)
	_, err := svc.TransitionStatus(ctx, app.ID, models.StatusApproved)
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	stored, err := apps.FindByID(context.Background(), app.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, stored.Status, "rollback restored the prior status")
}

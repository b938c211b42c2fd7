package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func TestCreateAnnouncement_Defaults(t *testing.T) {
	svc := NewAnnouncementService(newTestEngine(models.NewSnapshot()), nil, nil)

	ann, err := svc.Create(context.Background(), "admin-1", CreateAnnouncementRequest{
		Title:   "Service notice",
		Message: "Schedule changes next week",
	})
	require.NoError(t, err)
	assert.Equal(t, "general", ann.Type)
	assert.Equal(t, "normal", ann.Priority)
	assert.Equal(t, "published", ann.Status)
	assert.Equal(t, "admin-1", ann.CreatedBy)
	assert.Empty(t, ann.TargetRoles)
}

func TestCreateAnnouncement_RejectsUnknownRole(t *testing.T) {
	svc := NewAnnouncementService(newTestEngine(models.NewSnapshot()), nil, nil)

	_, err := svc.Create(context.Background(), "admin-1", CreateAnnouncementRequest{
		Title:       "Oops",
		Message:     "msg",
		TargetRoles: []string{"wizard"},
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestListAnnouncementsForRole(t *testing.T) {
	svc := NewAnnouncementService(newTestEngine(models.NewSnapshot()), nil, nil)

	_, err := svc.Create(context.Background(), "admin-1", CreateAnnouncementRequest{
		Title: "Everyone", Message: "msg",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "admin-1", CreateAnnouncementRequest{
		Title: "Drivers only", Message: "msg", TargetRoles: []string{"driver"},
	})
	require.NoError(t, err)

	drivers, err := svc.ListForRole(context.Background(), models.RoleDriver)
	require.NoError(t, err)
	assert.Len(t, drivers, 2)

	students, err := svc.ListForRole(context.Background(), models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Everyone", students[0].Title)

	// Admins see everything regardless of targeting.
	admin, err := svc.ListForRole(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admin, 2)
}

func TestDeleteAnnouncement(t *testing.T) {
	svc := NewAnnouncementService(newTestEngine(models.NewSnapshot()), nil, nil)

	ann, err := svc.Create(context.Background(), "admin-1", CreateAnnouncementRequest{Title: "T", Message: "m"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ann.ID))

	err = svc.Delete(context.Background(), ann.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

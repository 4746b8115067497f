package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maratbr/classifieds-board/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	groupID := factory.CreateGroup(t, "north")

	user := GetTestUserData()
	id, err := storage.CreateUser(ctx, user, []int{groupID})
	require.NoError(t, err)
	require.Greater(t, id, 0)

	got, err := storage.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, models.RoleClient, got.Role)
	assert.True(t, got.IsActive)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, groupID, got.Groups[0].ID)
	assert.Equal(t, "north", got.Groups[0].Region)
}

func TestStorage_CreateUser_UnknownGroup(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	_, err := storage.CreateUser(ctx, GetTestUserData(), []int{999})
	require.ErrorIs(t, err, ErrGroupNotFound)

	// Транзакция откатилась, пользователь не создан
	_, err = storage.GetUserByEmail(ctx, GetTestUserData().Email)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	id := factory.CreateUser(t, "someone@example.com", "hash", models.RoleModerator, true)

	got, err := storage.GetUserByEmail(ctx, "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, models.RoleModerator, got.Role)

	_, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_DeactivateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	id := factory.CreateUser(t, "gone@example.com", "hash", models.RoleClient, true)

	rows, err := storage.DeactivateUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	got, err := storage.GetUser(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Повторная деактивация не затрагивает строк
	rows, err = storage.DeactivateUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}

func TestStorage_ListUsersSharingGroup(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	north := factory.CreateGroup(t, "north")
	south := factory.CreateGroup(t, "south")

	moderator := factory.CreateUser(t, "moderator@example.com", "hash", models.RoleModerator, true)
	sameGroup := factory.CreateUser(t, "same@example.com", "hash", models.RoleClient, true)
	otherGroup := factory.CreateUser(t, "other@example.com", "hash", models.RoleClient, true)
	inactive := factory.CreateUser(t, "inactive@example.com", "hash", models.RoleClient, false)

	factory.AddUserToGroup(t, moderator, north)
	factory.AddUserToGroup(t, sameGroup, north)
	factory.AddUserToGroup(t, otherGroup, south)
	factory.AddUserToGroup(t, inactive, north)

	users, err := storage.ListUsersSharingGroup(ctx, moderator, 100, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	ids := []int{users[0].ID, users[1].ID}
	assert.Contains(t, ids, moderator)
	assert.Contains(t, ids, sameGroup)
	assert.NotContains(t, ids, otherGroup)
	assert.NotContains(t, ids, inactive)
}

func TestStorage_SharesGroup(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	north := factory.CreateGroup(t, "north")
	south := factory.CreateGroup(t, "south")

	a := factory.CreateUser(t, "a@example.com", "hash", models.RoleModerator, true)
	b := factory.CreateUser(t, "b@example.com", "hash", models.RoleClient, true)
	c := factory.CreateUser(t, "c@example.com", "hash", models.RoleClient, true)

	factory.AddUserToGroup(t, a, north)
	factory.AddUserToGroup(t, b, north)
	factory.AddUserToGroup(t, c, south)

	shares, err := storage.SharesGroup(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, shares)

	shares, err = storage.SharesGroup(ctx, a, c)
	require.NoError(t, err)
	assert.False(t, shares)
}

func TestStorage_GetUserByToken(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userID := factory.CreateUser(t, "token@example.com", "hash", models.RoleClient, true)
	issued := time.Now().UTC()
	factory.CreateToken(t, "valid-token", issued.Add(time.Hour), userID)

	// За минуту до истечения токен ещё действителен
	got, err := storage.GetUserByToken(ctx, "valid-token", issued.Add(59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)

	// Через минуту после истечения токен уже не находится
	_, err = storage.GetUserByToken(ctx, "valid-token", issued.Add(61*time.Minute))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = storage.GetUserByToken(ctx, "unknown-token", issued)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_CreateToken_KeepsOldTokens(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userID := factory.CreateUser(t, "relogin@example.com", "hash", models.RoleClient, true)
	now := time.Now().UTC()

	_, err := storage.CreateToken(ctx, models.Token{Token: "first", Expires: now.Add(time.Hour), UserID: userID})
	require.NoError(t, err)
	_, err = storage.CreateToken(ctx, models.Token{Token: "second", Expires: now.Add(time.Hour), UserID: userID})
	require.NoError(t, err)

	// Повторный логин не отзывает ранее выданные токены
	got, err := storage.GetUserByToken(ctx, "first", now)
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
}

func TestStorage_CreateAdvertisement(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	ownerID := factory.CreateUser(t, "owner@example.com", "hash", models.RoleClient, true)

	title := "Bike for sale"
	ad, err := storage.CreateAdvertisement(ctx, models.Advertisement{
		Title:   &title,
		Body:    "Barely used",
		OwnerID: ownerID,
		State:   models.StateActive,
	})
	require.NoError(t, err)
	assert.Greater(t, ad.ID, 0)
	require.NotNil(t, ad.Title)
	assert.Equal(t, title, *ad.Title)
	assert.Equal(t, models.StateActive, ad.State)
	assert.Equal(t, ownerID, ad.OwnerID)
	assert.False(t, ad.CreatedAt.IsZero())
	assert.Nil(t, ad.UpdatedAt)
}

func TestStorage_UpdateAdvertisement(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	ownerID := factory.CreateUser(t, "owner@example.com", "hash", models.RoleClient, true)
	otherID := factory.CreateUser(t, "other@example.com", "hash", models.RoleClient, true)
	adID := factory.CreateAdvertisement(t, nil, "old body", ownerID, models.StateDraft)

	updated, err := storage.UpdateAdvertisement(ctx, adID, ownerID, models.Advertisement{
		Body:  "new body",
		State: models.StateDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, "new body", updated.Body)
	assert.Nil(t, updated.Title)
	require.NotNil(t, updated.UpdatedAt)

	// Чужое объявление обновить нельзя
	_, err = storage.UpdateAdvertisement(ctx, adID, otherID, models.Advertisement{
		Body:  "hijacked",
		State: models.StateDraft,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_GetAdvertisement(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	ownerID := factory.CreateUser(t, "owner@example.com", "hash", models.RoleClient, true)
	otherID := factory.CreateUser(t, "other@example.com", "hash", models.RoleClient, true)
	adID := factory.CreateAdvertisement(t, nil, "body", ownerID, models.StateActive)

	got, err := storage.GetAdvertisement(ctx, adID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, adID, got.ID)

	_, err = storage.GetAdvertisement(ctx, adID, otherID)
	require.ErrorIs(t, err, ErrNotFound)

	got, err = storage.GetAdvertisementByID(ctx, adID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got.OwnerID)
}

func TestStorage_ListAdvertisements(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	ownerID := factory.CreateUser(t, "owner@example.com", "hash", models.RoleClient, true)
	factory.CreateAdvertisement(t, nil, "active one", ownerID, models.StateActive)
	factory.CreateAdvertisement(t, nil, "active two", ownerID, models.StateActive)
	factory.CreateAdvertisement(t, nil, "draft", ownerID, models.StateDraft)

	active, err := storage.ListAdvertisements(ctx, ownerID, models.StateActive, 100, 0)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	drafts, err := storage.ListAdvertisements(ctx, ownerID, models.StateDraft, 100, 0)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	page, err := storage.ListAdvertisements(ctx, ownerID, models.StateActive, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestStorage_ListFeed(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	first := factory.CreateUser(t, "first@example.com", "hash", models.RoleClient, true)
	second := factory.CreateUser(t, "second@example.com", "hash", models.RoleClient, true)

	factory.CreateAdvertisement(t, nil, "from first", first, models.StateActive)
	factory.CreateAdvertisement(t, nil, "hidden draft", first, models.StateDraft)
	factory.CreateAdvertisement(t, nil, "from second", second, models.StateActive)

	feed, err := storage.ListFeed(ctx, 100, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	for _, ad := range feed {
		assert.Equal(t, models.StateActive, ad.State)
	}
}

func TestStorage_RemoveAdvertisement(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	ownerID := factory.CreateUser(t, "owner@example.com", "hash", models.RoleClient, true)
	adID := factory.CreateAdvertisement(t, nil, "body", ownerID, models.StateActive)

	rows, err := storage.RemoveAdvertisement(ctx, adID)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	_, err = storage.GetAdvertisementByID(ctx, adID)
	require.ErrorIs(t, err, ErrNotFound)

	rows, err = storage.RemoveAdvertisement(ctx, adID)
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}

func TestStorage_ContextCancelled(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.GetUser(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}

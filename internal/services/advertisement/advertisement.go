// Package services содержит бизнес-логику работы с объявлениями и черновиками,
// включая проверки владения, доступ модераторов по общим группам,
// публичную ленту и кеширование чтений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maratbr/classifieds-board/internal/lib/authz"
	"github.com/maratbr/classifieds-board/internal/models"
	"github.com/maratbr/classifieds-board/internal/storage/repository"
)

// AdvertisementRepository описывает контракт хранилища для объявлений.
// Методы GetUser и SharesGroup нужны для ленты и проверок доступа.
type AdvertisementRepository interface {
	CreateAdvertisement(ctx context.Context, ad models.Advertisement) (*models.Advertisement, error)
	UpdateAdvertisement(ctx context.Context, id, ownerID int, ad models.Advertisement) (*models.Advertisement, error)
	RemoveAdvertisement(ctx context.Context, id int) (int, error)
	GetAdvertisement(ctx context.Context, id, ownerID int) (*models.Advertisement, error)
	GetAdvertisementByID(ctx context.Context, id int) (*models.Advertisement, error)
	ListAdvertisements(ctx context.Context, ownerID int, state string, limit, offset int) ([]*models.Advertisement, error)
	ListFeed(ctx context.Context, limit, offset int) ([]*models.Advertisement, error)
	GetUser(ctx context.Context, userID int) (*models.User, error)
	SharesGroup(ctx context.Context, userID, otherID int) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// AdvertisementService реализует бизнес-логику объявлений и черновиков.
// Одна и та же сущность обслуживает оба семейства ручек: параметр state
// определяет, с активными объявлениями идёт работа или с черновиками.
type AdvertisementService struct {
	repo  AdvertisementRepository
	cache Cache
	log   *slog.Logger
}

// NewAdvertisementService создает новый экземпляр AdvertisementService.
func NewAdvertisementService(repo AdvertisementRepository, cache Cache, log *slog.Logger) *AdvertisementService {
	return &AdvertisementService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает объявление в состоянии state для владельца ownerID.
// Создавать может только клиент и только от своего имени: чужой ownerID
// скрывается за ErrNotFound.
func (s *AdvertisementService) Create(ctx context.Context, caller *models.User, ownerID int, req models.DummyAdvertisement, state string) (*models.Advertisement, error) {
	if err := authz.Allow(caller.Role, createOp(state)); err != nil {
		return nil, err
	}
	if ownerID != caller.ID {
		return nil, repository.ErrNotFound
	}

	ad, err := s.repo.CreateAdvertisement(ctx, models.Advertisement{
		Title:   req.Title,
		Body:    req.Body,
		OwnerID: ownerID,
		State:   state,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("created advertisement", slog.Int("id", ad.ID), slog.String("state", ad.State))

	s.cacheSet(ad)
	return ad, nil
}

// Update перезаписывает заголовок и текст и безусловно выставляет state:
// обновление через ручку черновиков всегда делает запись черновиком,
// через ручку объявлений — активной, независимо от прежнего состояния.
func (s *AdvertisementService) Update(ctx context.Context, caller *models.User, ownerID, id int, req models.DummyAdvertisement, state string) (*models.Advertisement, error) {
	if err := authz.Allow(caller.Role, updateOp(state)); err != nil {
		return nil, err
	}
	if ownerID != caller.ID {
		return nil, repository.ErrNotFound
	}

	ad, err := s.repo.UpdateAdvertisement(ctx, id, ownerID, models.Advertisement{
		Title: req.Title,
		Body:  req.Body,
		State: state,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("updated advertisement", slog.Int("id", ad.ID), slog.String("state", ad.State))

	s.cacheSet(ad)
	return ad, nil
}

// Get возвращает объявление по ID и владельцу. Черновики видны только
// владельцу, администраторам и модераторам из общей группы с владельцем.
func (s *AdvertisementService) Get(ctx context.Context, caller *models.User, ownerID, id int, state string) (*models.Advertisement, error) {
	if state == models.StateDraft {
		if err := s.checkDraftAccess(ctx, caller, ownerID); err != nil {
			return nil, err
		}
	}

	var ad *models.Advertisement
	cacheKey := advertisementCacheKey(id)
	found, err := s.cache.Get(cacheKey, &ad)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		if ad, err = s.repo.GetAdvertisement(ctx, id, ownerID); err != nil {
			return nil, err
		}
		s.cacheSet(ad)
	}
	if ad.OwnerID != ownerID || ad.State != state {
		return nil, repository.ErrNotFound
	}
	return ad, nil
}

// List возвращает объявления владельца в состоянии state с пагинацией.
// Для черновиков действует та же проверка доступа, что и в Get.
func (s *AdvertisementService) List(ctx context.Context, caller *models.User, ownerID int, state string, limit, offset int) ([]*models.Advertisement, error) {
	if state == models.StateDraft {
		if err := s.checkDraftAccess(ctx, caller, ownerID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListAdvertisements(ctx, ownerID, state, limit, offset)
}

// Delete удаляет объявление. Клиент удаляет только своё (иначе ErrNotFound),
// администратор — любое, модератор — только при общей группе с владельцем
// (иначе ErrForbidden: привилегированному вызывающему существование не скрывается).
func (s *AdvertisementService) Delete(ctx context.Context, caller *models.User, ownerID, id int, state string) error {
	if err := authz.Allow(caller.Role, deleteOp(state)); err != nil {
		return err
	}

	ad, err := s.repo.GetAdvertisementByID(ctx, id)
	if err != nil {
		return err
	}
	if ad.OwnerID != ownerID || ad.State != state {
		return repository.ErrNotFound
	}

	switch caller.Role {
	case models.RoleClient:
		if ad.OwnerID != caller.ID {
			return repository.ErrNotFound
		}
	case models.RoleModerator:
		shares, err := s.repo.SharesGroup(ctx, caller.ID, ad.OwnerID)
		if err != nil {
			return err
		}
		if !shares {
			return authz.ErrForbidden
		}
	}

	rows, err := s.repo.RemoveAdvertisement(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	s.log.Info("removed advertisement", slog.Int("id", id))

	cacheKey := advertisementCacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return nil
}

// Feed возвращает публичную ленту: активные объявления всех пользователей
// по убыванию даты создания, каждое с публичным профилем владельца.
func (s *AdvertisementService) Feed(ctx context.Context, limit, offset int) ([]models.FeedItem, error) {
	ads, err := s.repo.ListFeed(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	owners := make(map[int]models.PublicUser)
	result := make([]models.FeedItem, 0, len(ads))
	for _, ad := range ads {
		owner, ok := owners[ad.OwnerID]
		if !ok {
			user, err := s.repo.GetUser(ctx, ad.OwnerID)
			if err != nil {
				return nil, err
			}
			owner = user.Public()
			owners[ad.OwnerID] = owner
		}
		result = append(result, models.FeedItem{
			Advertisement: *ad,
			Owner:         owner,
		})
	}
	return result, nil
}

// checkDraftAccess решает, вправе ли вызывающий видеть черновики владельца
// ownerID. Отказ всегда ErrNotFound: существование черновиков скрывается.
func (s *AdvertisementService) checkDraftAccess(ctx context.Context, caller *models.User, ownerID int) error {
	if caller.ID == ownerID || caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.Role == models.RoleModerator {
		shares, err := s.repo.SharesGroup(ctx, caller.ID, ownerID)
		if err != nil {
			return err
		}
		if shares {
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *AdvertisementService) cacheSet(ad *models.Advertisement) {
	cacheKey := advertisementCacheKey(ad.ID)
	if err := s.cache.Set(cacheKey, ad, time.Hour); err != nil {
		s.log.Warn("failed to cache advertisement", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func advertisementCacheKey(id int) string {
	return fmt.Sprintf("advertisement:%d", id)
}

func createOp(state string) authz.Operation {
	if state == models.StateDraft {
		return authz.OpCreateDraft
	}
	return authz.OpCreateAdvertisement
}

func updateOp(state string) authz.Operation {
	if state == models.StateDraft {
		return authz.OpUpdateDraft
	}
	return authz.OpUpdateAdvertisement
}

func deleteOp(state string) authz.Operation {
	if state == models.StateDraft {
		return authz.OpDeleteDraft
	}
	return authz.OpDeleteAdvertisement
}

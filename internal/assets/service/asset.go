package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"assetshare/internal/assets/validator"
	"assetshare/internal/cache"
	"assetshare/pkg/client"
	"assetshare/pkg/config"
	"assetshare/pkg/model"
	"assetshare/pkg/sanitizer"
	"assetshare/pkg/validation"
)

type AssetService interface {
	List(ctx context.Context, filter model.AssetFilter) ([]model.Asset, error)
	Get(ctx context.Context, id int64) (*model.Asset, error)
	Create(ctx context.Context, asset *model.AssetCreate) (*model.Asset, error)
	Update(ctx context.Context, id int64, update *model.AssetUpdate) (*model.Asset, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
}

type AssetAPI interface {
	List(ctx context.Context, filter model.AssetFilter) ([]model.Asset, error)
	Get(ctx context.Context, id int64) (*model.Asset, error)
	Create(ctx context.Context, asset *model.AssetCreate) (*model.Asset, error)
	Update(ctx context.Context, id int64, update *model.AssetUpdate) (*model.Asset, error)
	Delete(ctx context.Context, id int64) error
}

type UploadAPI interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
}

type assetService struct {
	api         AssetAPI
	uploads     UploadAPI
	store       cache.Store
	invalidator *cache.Invalidator
	validator   *validator.AssetValidator
	cfg         *config.Config
}

func NewAssetService(
	api AssetAPI,
	uploads UploadAPI,
	store cache.Store,
	invalidator *cache.Invalidator,
	validator *validator.AssetValidator,
	cfg *config.Config,
) AssetService {
	return &assetService{
		api:         api,
		uploads:     uploads,
		store:       store,
		invalidator: invalidator,
		validator:   validator,
		cfg:         cfg,
	}
}

func (s *assetService) List(ctx context.Context, filter model.AssetFilter) ([]model.Asset, error) {
	filter.Search = sanitizer.NormalizeText(filter.Search)
	filter.Type = sanitizer.NormalizeText(filter.Type)

	key := cache.ForQuery(cache.Assets, map[string]string{"search": filter.Search, "type": filter.Type})
	assets, err := cache.Fetch(ctx, s.store, s.cfg.Log, key, func(ctx context.Context) ([]model.Asset, error) {
		return s.api.List(ctx, filter)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to list assets", "search", filter.Search, "type", filter.Type, "error", err)
		return nil, client.ToAppError(err)
	}
	return assets, nil
}

func (s *assetService) Get(ctx context.Context, id int64) (*model.Asset, error) {
	asset, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.ForID(cache.Asset, id), func(ctx context.Context) (*model.Asset, error) {
		return s.api.Get(ctx, id)
	})
	if err != nil {
		return nil, client.ToAppError(err)
	}
	return asset, nil
}

func (s *assetService) Create(ctx context.Context, asset *model.AssetCreate) (*model.Asset, error) {
	s.applyDefaults(asset)
	s.sanitize(asset)
	if err := s.validator.Validate(asset); err != nil {
		s.cfg.Log.Warn("Asset validation failed", "error", err)
		return nil, validation.ToAppError(err)
	}

	created, err := s.api.Create(ctx, asset)
	if err != nil {
		s.cfg.Log.Error("Failed to create asset", "name", asset.Name, "error", err)
		return nil, client.ToAppError(err)
	}

	s.invalidate(ctx, cache.CreateAsset, created.ID)
	s.cfg.Log.Info("Asset created successfully",
		"id", created.ID,
		"name", created.Name,
		"type", created.Type,
	)
	return created, nil
}

func (s *assetService) Update(ctx context.Context, id int64, update *model.AssetUpdate) (*model.Asset, error) {
	s.sanitizeUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Asset update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError(err)
	}

	updated, err := s.api.Update(ctx, id, update)
	if err != nil {
		s.cfg.Log.Error("Failed to update asset", "id", id, "error", err)
		return nil, client.ToAppError(err)
	}

	s.invalidate(ctx, cache.UpdateAsset, id)
	s.cfg.Log.Info("Asset updated successfully", "id", id)
	return updated, nil
}

func (s *assetService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete asset", "id", id, "error", err)
		return client.ToAppError(err)
	}

	s.invalidate(ctx, cache.DeleteAsset, id)
	s.cfg.Log.Info("Asset deleted successfully", "id", id)
	return nil
}

func (s *assetService) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(content, int64(s.validator.MaxImageSize())+1))
	if err != nil {
		return "", validation.ToAppError(fmt.Errorf("read upload: %w", err))
	}
	if err := s.validator.ValidateImage(data); err != nil {
		return "", validation.ToAppError(err)
	}

	url, err := s.uploads.Upload(ctx, filename, bytes.NewReader(data))
	if err != nil {
		s.cfg.Log.Error("Failed to upload image", "filename", filename, "error", err)
		return "", client.ToAppError(err)
	}

	s.cfg.Log.Info("Image uploaded successfully", "filename", filename, "url", url)
	return url, nil
}

func (s *assetService) invalidate(ctx context.Context, m cache.Mutation, id int64) {
	if err := s.invalidator.Apply(ctx, m, id); err != nil {
		s.cfg.Log.Warn("Cache invalidation incomplete", "mutation", m, "id", id, "error", err)
	}
}

func (s *assetService) applyDefaults(asset *model.AssetCreate) {
	if asset.Active == nil {
		active := true
		asset.Active = &active
	}
	if asset.TotalQuantity == nil {
		one := 1
		asset.TotalQuantity = &one
	}
	if len(asset.DurationOptions) == 0 {
		asset.DurationOptions = []string{"day"}
	}
}

func (s *assetService) sanitize(asset *model.AssetCreate) {
	asset.Name = sanitizer.NormalizeText(asset.Name)
	asset.Type = sanitizer.NormalizeText(asset.Type)
	asset.Location = sanitizer.NormalizeText(asset.Location)
	asset.Description = sanitizer.NormalizeText(asset.Description)
	asset.Cost = sanitizer.NormalizeText(asset.Cost)
	asset.Images = sanitizer.NormalizeTags(asset.Images)
	asset.DurationOptions = sanitizer.NormalizeTags(asset.DurationOptions)
}

func (s *assetService) sanitizeUpdate(update *model.AssetUpdate) {
	update.Name = sanitizer.NormalizeTextPtr(update.Name)
	update.Type = sanitizer.NormalizeTextPtr(update.Type)
	update.Location = sanitizer.NormalizeTextPtr(update.Location)
	update.Description = sanitizer.NormalizeTextPtr(update.Description)
	update.Cost = sanitizer.NormalizeTextPtr(update.Cost)
	update.Images = sanitizer.NormalizeTags(update.Images)
	update.DurationOptions = sanitizer.NormalizeTags(update.DurationOptions)
}

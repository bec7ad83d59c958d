package application

import (
	"context"
	"fmt"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
)

// VendorService handles vendor management.
type VendorService struct {
	vendorRepo ports.VendorRepository
	logger     zerolog.Logger
}

// NewVendorService creates a new vendor service.
func NewVendorService(vendorRepo ports.VendorRepository, logger zerolog.Logger) *VendorService {
	return &VendorService{
		vendorRepo: vendorRepo,
		logger:     logger,
	}
}

// CreateVendorInput represents input for creating a vendor.
type CreateVendorInput struct {
	Name        string
	Description string
	ContactInfo string
}

// UpdateVendorInput carries a partial vendor update.
type UpdateVendorInput struct {
	Name        *string
	Description *string
	ContactInfo *string
	Status      *string
}

// CreateVendor persists a new vendor and returns its assigned ID.
func (s *VendorService) CreateVendor(ctx context.Context, input CreateVendorInput) (int64, error) {
	vendor := &domain.Vendor{
		Name:        input.Name,
		Description: input.Description,
		ContactInfo: input.ContactInfo,
		Status:      domain.VendorStatusActive,
	}

	id, err := s.vendorRepo.Create(ctx, vendor)
	if err != nil {
		return 0, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.logger.Info().Int64("vendorId", id).Str("name", input.Name).Msg("Created vendor")
	return id, nil
}

// UpdateVendor applies a partial update. A missing ID yields (nil, nil) and
// mutates nothing.
func (s *VendorService) UpdateVendor(ctx context.Context, id int64, input UpdateVendorInput) (*domain.Vendor, error) {
	existing, err := s.vendorRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	vendor := &domain.Vendor{
		ID:          id,
		Name:        existing.Name,
		Description: existing.Description,
		ContactInfo: existing.ContactInfo,
		Status:      existing.Status,
	}
	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Description != nil {
		vendor.Description = *input.Description
	}
	if input.ContactInfo != nil {
		vendor.ContactInfo = *input.ContactInfo
	}
	if input.Status != nil {
		vendor.Status = *input.Status
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}

	s.logger.Info().Int64("vendorId", id).Str("name", vendor.Name).Msg("Updated vendor")
	return vendor, nil
}

// DeleteVendor removes a vendor by ID.
func (s *VendorService) DeleteVendor(ctx context.Context, id int64) error {
	if err := s.vendorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}

	s.logger.Info().Int64("vendorId", id).Msg("Deleted vendor")
	return nil
}

// GetVendor retrieves a vendor by ID, or (nil, nil) when absent.
func (s *VendorService) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	vendor, err := s.vendorRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return vendor, nil
}

// SearchVendors finds vendors whose name contains term.
func (s *VendorService) SearchVendors(ctx context.Context, term string) ([]*domain.Vendor, error) {
	vendors, err := s.vendorRepo.SearchByName(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search vendors: %w", err)
	}
	return vendors, nil
}

// ListVendors retrieves all vendors.
func (s *VendorService) ListVendors(ctx context.Context) ([]*domain.Vendor, error) {
	vendors, err := s.vendorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

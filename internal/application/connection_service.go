package application

import (
	"context"
	"fmt"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
)

// ConnectionService handles vendor connection management.
type ConnectionService struct {
	connectionRepo ports.ConnectionRepository
	logger         zerolog.Logger
}

// NewConnectionService creates a new connection service.
func NewConnectionService(
	connectionRepo ports.ConnectionRepository,
	logger zerolog.Logger,
) *ConnectionService {
	return &ConnectionService{
		connectionRepo: connectionRepo,
		logger:         logger,
	}
}

// CreateConnectionInput represents input for creating a connection.
type CreateConnectionInput struct {
	VendorID int64
	Name     string
	ConnType string
	Config   map[string]any
}

// UpdateConnectionInput carries a partial update. Nil pointers mean "keep
// the current value"; an empty or nil Config leaves the stored config
// untouched.
type UpdateConnectionInput struct {
	VendorID *int64
	Name     *string
	ConnType *string
	Config   map[string]any
	Status   *string
}

// CreateConnection persists a new connection and returns its assigned ID.
// An empty config is stored as an absent column, not as "{}".
func (s *ConnectionService) CreateConnection(ctx context.Context, input CreateConnectionInput) (int64, error) {
	conn := &domain.Connection{
		VendorID: input.VendorID,
		Name:     input.Name,
		ConnType: input.ConnType,
		Status:   domain.ConnectionStatusActive,
	}
	if len(input.Config) > 0 {
		conn.Config = input.Config
	}

	id, err := s.connectionRepo.Create(ctx, conn)
	if err != nil {
		return 0, fmt.Errorf("failed to create connection: %w", err)
	}

	s.logger.Info().
		Int64("connectionId", id).
		Int64("vendorId", input.VendorID).
		Str("name", input.Name).
		Str("connType", input.ConnType).
		Msg("Created connection")

	return id, nil
}

// UpdateConnection applies a partial update to an existing connection and
// returns the persisted state. A missing ID yields (nil, nil) and mutates
// nothing.
//
// Config merge semantics: when both the stored config and a new partial
// config are non-empty, the new mapping is shallow-merged over the stored
// one (new keys overwrite, no deep merge of nested values). When only the
// new config is non-empty it replaces the stored one. Otherwise the stored
// config column is left exactly as it is.
func (s *ConnectionService) UpdateConnection(ctx context.Context, id int64, input UpdateConnectionInput) (*domain.Connection, error) {
	existing, err := s.connectionRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	var config map[string]any
	switch {
	case len(input.Config) > 0 && len(existing.Config) > 0:
		config = make(map[string]any, len(existing.Config)+len(input.Config))
		for k, v := range existing.Config {
			config[k] = v
		}
		for k, v := range input.Config {
			config[k] = v
		}
	case len(input.Config) > 0:
		config = input.Config
	default:
		// nil leaves the stored column untouched
		config = nil
	}

	conn := &domain.Connection{
		ID:       id,
		VendorID: existing.VendorID,
		Name:     existing.Name,
		ConnType: existing.ConnType,
		Config:   config,
		Status:   existing.Status,
	}
	if input.VendorID != nil {
		conn.VendorID = *input.VendorID
	}
	if input.Name != nil {
		conn.Name = *input.Name
	}
	if input.ConnType != nil {
		conn.ConnType = *input.ConnType
	}
	if input.Status != nil {
		conn.Status = *input.Status
	}

	if err := s.connectionRepo.Update(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to update connection: %w", err)
	}

	s.logger.Info().
		Int64("connectionId", id).
		Str("name", conn.Name).
		Msg("Updated connection")

	if conn.Config == nil {
		conn.Config = existing.Config
	}
	return conn, nil
}

// DeleteConnection removes a connection by ID.
func (s *ConnectionService) DeleteConnection(ctx context.Context, id int64) error {
	if err := s.connectionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	s.logger.Info().Int64("connectionId", id).Msg("Deleted connection")
	return nil
}

// GetConnection retrieves a connection by ID, or (nil, nil) when absent.
func (s *ConnectionService) GetConnection(ctx context.Context, id int64) (*domain.Connection, error) {
	conn, err := s.connectionRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return conn, nil
}

// ListConnections retrieves all connections configured for a vendor.
func (s *ConnectionService) ListConnections(ctx context.Context, vendorID int64) ([]*domain.Connection, error) {
	conns, err := s.connectionRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// ListConnectionTypes returns the fixed set of supported connection kinds.
func (s *ConnectionService) ListConnectionTypes() []string {
	types := make([]string, len(domain.ConnectionTypes))
	copy(types, domain.ConnectionTypes)
	return types
}

package ports

import (
	"context"
	"io"

	"vendor-catalog-core/internal/domain"
)

// SFTPConfig holds everything needed to reach a remote SFTP endpoint. It is
// typically decoded from a connection's config mapping.
type SFTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	PrivateKey  []byte
	Directory   string
	FilePattern string
}

// FileTransferClient defines the interface for remote file transfer.
type FileTransferClient interface {
	// List returns the names of remote files in cfg.Directory matching
	// cfg.FilePattern.
	List(ctx context.Context, cfg SFTPConfig) ([]string, error)

	// Download fetches a remote file and returns its contents.
	Download(ctx context.Context, cfg SFTPConfig, name string) ([]byte, error)

	// Upload writes r to a remote file under cfg.Directory.
	Upload(ctx context.Context, cfg SFTPConfig, name string, r io.Reader) error
}

// APISourceConfig describes a remote catalog API to import from.
type APISourceConfig struct {
	URL          string
	AuthType     string // "none", "basic" or "bearer"
	Username     string
	Password     string
	Token        string
	Headers      map[string]string
	Params       map[string]string
	Paginated    bool
	ItemsPath    string
	NextPagePath string
}

// CatalogAPIClient fetches catalog rows from a vendor's REST API.
type CatalogAPIClient interface {
	FetchRows(ctx context.Context, cfg APISourceConfig) ([]map[string]any, error)
}

// ImportEventPublisher publishes import progress events.
type ImportEventPublisher interface {
	Publish(event *domain.ImportEvent)
}

package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"vendor-catalog-core/internal/application/import_handlers"
	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVendorRepo struct {
	vendors map[int64]*domain.Vendor
}

func (r *fakeVendorRepo) Create(ctx context.Context, v *domain.Vendor) (int64, error) {
	return 0, nil
}

func (r *fakeVendorRepo) Get(ctx context.Context, id int64) (*domain.Vendor, error) {
	return r.vendors[id], nil
}

func (r *fakeVendorRepo) List(ctx context.Context) ([]*domain.Vendor, error) { return nil, nil }

func (r *fakeVendorRepo) SearchByName(ctx context.Context, term string) ([]*domain.Vendor, error) {
	return nil, nil
}

func (r *fakeVendorRepo) Update(ctx context.Context, v *domain.Vendor) error { return nil }

func (r *fakeVendorRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeVendorProductRepo struct {
	upserted  []*domain.VendorProduct
	batchSize int
}

func (r *fakeVendorProductRepo) BulkUpsert(ctx context.Context, rows []*domain.VendorProduct, batchSize int) (int, error) {
	r.upserted = append(r.upserted, rows...)
	r.batchSize = batchSize
	return len(rows), nil
}

func (r *fakeVendorProductRepo) ListByVendor(ctx context.Context, vendorID int64) ([]*domain.VendorProduct, error) {
	return r.upserted, nil
}

type fakeTransferClient struct {
	files map[string][]byte
	// when set, files are served per remote directory and listing an
	// unknown directory fails
	dirs map[string]map[string][]byte
}

func (c *fakeTransferClient) List(ctx context.Context, cfg ports.SFTPConfig) ([]string, error) {
	files := c.files
	if c.dirs != nil {
		dir, ok := c.dirs[cfg.Directory]
		if !ok {
			return nil, fmt.Errorf("no such directory: %s", cfg.Directory)
		}
		files = dir
	}
	var names []string
	for name := range files {
		names = append(names, name)
	}
	return names, nil
}

func (c *fakeTransferClient) Download(ctx context.Context, cfg ports.SFTPConfig, name string) ([]byte, error) {
	if c.dirs != nil {
		return c.dirs[cfg.Directory][name], nil
	}
	return c.files[name], nil
}

func (c *fakeTransferClient) Upload(ctx context.Context, cfg ports.SFTPConfig, name string, r io.Reader) error {
	return nil
}

type fakeAPIClient struct {
	rows []map[string]any
}

func (c *fakeAPIClient) FetchRows(ctx context.Context, cfg ports.APISourceConfig) ([]map[string]any, error) {
	return c.rows, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.ImportEvent
}

func (p *recordingPublisher) Publish(event *domain.ImportEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) stages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	stages := make([]string, 0, len(p.events))
	for _, e := range p.events {
		stages = append(stages, e.Stage)
	}
	return stages
}

func newTestImportService(t *testing.T) (*ImportService, *fakeVendorProductRepo, *recordingPublisher, *fakeTransferClient, *fakeAPIClient) {
	t.Helper()
	vendorRepo := &fakeVendorRepo{vendors: map[int64]*domain.Vendor{
		1: {ID: 1, Name: "Acme Wholesale", Status: domain.VendorStatusActive},
	}}
	productRepo := &fakeVendorProductRepo{}
	transferClient := &fakeTransferClient{files: map[string][]byte{}}
	apiClient := &fakeAPIClient{}
	publisher := &recordingPublisher{}

	svc := NewImportService(vendorRepo, productRepo, transferClient, apiClient, publisher, zerolog.Nop())
	svc.RegisterHandler(import_handlers.NewCSVHandler(zerolog.Nop()))
	svc.RegisterHandler(import_handlers.NewJSONHandler(zerolog.Nop()))
	return svc, productRepo, publisher, transferClient, apiClient
}

func TestImportFromFileCSV(t *testing.T) {
	svc, productRepo, publisher, _, _ := newTestImportService(t)

	feed := "SKU,Price,Qty,Color\nA-1,9.99,5,red\nA-2,19.50,0,blue\n"
	report, err := svc.ImportFromFile(context.Background(), 1, "catalog.csv", strings.NewReader(feed), nil)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Imported)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.JobID)
	assert.Equal(t, domain.ImportSourceFile, report.Source)

	require.Len(t, productRepo.upserted, 2)
	first := productRepo.upserted[0]
	assert.Equal(t, "A-1", first.VendorSKU)
	require.NotNil(t, first.VendorPrice)
	assert.Equal(t, 9.99, *first.VendorPrice)
	assert.Equal(t, 5, first.Quantity)
	// unknown columns land in props
	assert.Equal(t, "red", first.Props["color"])

	assert.Equal(t, []string{"started", "parsed", "persisted", "finished"}, publisher.stages())
}

func TestImportFromFileWithMapping(t *testing.T) {
	svc, productRepo, _, _, _ := newTestImportService(t)

	feed := "item_number,cost\nB-1,12.00\n"
	mapping := map[string]string{"item_number": "sku", "cost": "price"}
	report, err := svc.ImportFromFile(context.Background(), 1, "feed.csv", strings.NewReader(feed), mapping)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	require.Len(t, productRepo.upserted, 1)
	assert.Equal(t, "B-1", productRepo.upserted[0].VendorSKU)
	require.NotNil(t, productRepo.upserted[0].VendorPrice)
	assert.Equal(t, 12.0, *productRepo.upserted[0].VendorPrice)
}

func TestImportFromFileSkipsRowsWithoutSKU(t *testing.T) {
	svc, productRepo, _, _, _ := newTestImportService(t)

	feed := "sku,price\nC-1,5.00\n,6.00\n"
	report, err := svc.ImportFromFile(context.Background(), 1, "feed.csv", strings.NewReader(feed), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "missing sku")
	assert.Len(t, productRepo.upserted, 1)
}

func TestImportFromFileUnsupportedFormat(t *testing.T) {
	svc, _, publisher, _, _ := newTestImportService(t)

	_, err := svc.ImportFromFile(context.Background(), 1, "feed.parquet", strings.NewReader("x"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
	assert.Equal(t, []string{"started", "failed"}, publisher.stages())
}

func TestImportUnknownVendor(t *testing.T) {
	svc, _, publisher, _, _ := newTestImportService(t)

	_, err := svc.ImportFromFile(context.Background(), 42, "feed.csv", strings.NewReader("sku\nA-1\n"), nil)
	assert.ErrorIs(t, err, ErrVendorNotFound)
	assert.Empty(t, publisher.stages())
}

func TestImportFromAPI(t *testing.T) {
	svc, productRepo, publisher, _, apiClient := newTestImportService(t)
	apiClient.rows = []map[string]any{
		{"sku": "D-1", "price": 3.5, "qty": float64(10)},
		{"sku": "D-2", "price": "4.25"},
	}

	report, err := svc.ImportFromAPI(context.Background(), 1, ports.APISourceConfig{URL: "https://api.vendor.example/items"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, domain.ImportSourceAPI, report.Source)
	require.Len(t, productRepo.upserted, 2)
	assert.Equal(t, 10, productRepo.upserted[0].Quantity)
	require.NotNil(t, productRepo.upserted[1].VendorPrice)
	assert.Equal(t, 4.25, *productRepo.upserted[1].VendorPrice)
	assert.Equal(t, []string{"started", "parsed", "persisted", "finished"}, publisher.stages())
}

func TestImportFromSFTP(t *testing.T) {
	svc, productRepo, _, transferClient, _ := newTestImportService(t)
	transferClient.files["drop.csv"] = []byte("sku,price\nE-1,7.77\n")

	report, err := svc.ImportFromSFTP(context.Background(), 1, ports.SFTPConfig{
		Host:        "sftp.vendor.example",
		Directory:   "/feeds",
		FilePattern: "*.csv",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, domain.ImportSourceSFTP, report.Source)
	require.Len(t, productRepo.upserted, 1)
	assert.Equal(t, "E-1", productRepo.upserted[0].VendorSKU)
}

func TestImportFromSFTPNoFiles(t *testing.T) {
	svc, _, _, _, _ := newTestImportService(t)

	_, err := svc.ImportFromSFTP(context.Background(), 1, ports.SFTPConfig{Host: "sftp.vendor.example"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching files")
}

func TestImportFromFileEDI(t *testing.T) {
	svc, productRepo, publisher, _, _ := newTestImportService(t)
	svc.RegisterHandler(import_handlers.NewEDIHandler(zerolog.Nop()))

	feed := "ISA*00*          *00~GS*PC*SENDER*RECEIVER~ST*832*0001~" +
		"LIN**VP*A-1~PID*F****Blue Widget~CTP**RES*9.99~" +
		"LIN**VP*B-2~PID*F****Gadget~CTP**RES*19.50~" +
		"SE*9*0001~"
	report, err := svc.ImportFromFile(context.Background(), 1, "catalog.edi", strings.NewReader(feed), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Empty(t, report.Errors)
	require.Len(t, productRepo.upserted, 2)

	first := productRepo.upserted[0]
	assert.Equal(t, "A-1", first.VendorSKU)
	require.NotNil(t, first.VendorPrice)
	assert.Equal(t, 9.99, *first.VendorPrice)
	assert.Equal(t, "Blue Widget", first.Props["name"])
	assert.Equal(t, "B-2", productRepo.upserted[1].VendorSKU)
	assert.Equal(t, []string{"started", "parsed", "persisted", "finished"}, publisher.stages())
}

func TestImportFromSFTPMulti(t *testing.T) {
	svc, productRepo, publisher, transferClient, _ := newTestImportService(t)
	transferClient.dirs = map[string]map[string][]byte{
		"/feeds/daily":  {"daily.csv": []byte("sku,price\nF-1,9.99\n")},
		"/feeds/weekly": {"weekly.csv": []byte("sku,price\nG-7,4.25\n")},
	}

	cfgs := []ports.SFTPConfig{
		{Host: "sftp.vendor.example", Directory: "/feeds/daily"},
		{Host: "sftp.vendor.example", Directory: "/feeds/weekly"},
	}
	report, err := svc.ImportFromSFTPMulti(context.Background(), 1, cfgs, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Empty(t, report.Errors)
	assert.Equal(t, domain.ImportSourceSFTP, report.Source)
	require.Len(t, productRepo.upserted, 2)
	stages := publisher.stages()
	assert.Equal(t, "started", stages[0])
	assert.Equal(t, "finished", stages[len(stages)-1])
}

func TestImportFromSFTPMultiContinuesPastFailedDirectory(t *testing.T) {
	svc, productRepo, _, transferClient, _ := newTestImportService(t)
	transferClient.dirs = map[string]map[string][]byte{
		"/feeds/daily": {"daily.csv": []byte("sku,price\nF-1,9.99\n")},
	}

	cfgs := []ports.SFTPConfig{
		{Host: "sftp.vendor.example", Directory: "/feeds/missing"},
		{Host: "sftp.vendor.example", Directory: "/feeds/daily"},
	}
	report, err := svc.ImportFromSFTPMulti(context.Background(), 1, cfgs, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "/feeds/missing")
	require.Len(t, productRepo.upserted, 1)
	assert.Equal(t, "F-1", productRepo.upserted[0].VendorSKU)
}

func TestImportFromSFTPMultiNoSources(t *testing.T) {
	svc, _, _, _, _ := newTestImportService(t)

	_, err := svc.ImportFromSFTPMulti(context.Background(), 1, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one sftp source")
}

func TestApplyMapping(t *testing.T) {
	row := map[string]any{"item_number": "A-1", "cost": "9.99", "color": "red"}
	mapped := applyMapping(row, map[string]string{"item_number": "sku", "cost": "price"})

	assert.Equal(t, map[string]any{"sku": "A-1", "price": "9.99", "color": "red"}, mapped)
	// no mapping returns the row untouched
	assert.Equal(t, row, applyMapping(row, nil))
}

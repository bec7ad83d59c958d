package transfer

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"

	"vendor-catalog-core/internal/ports"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// SFTPClient implements FileTransferClient over SSH. A fresh session is
// dialed per call; connection records carry the endpoint details.
type SFTPClient struct {
	logger zerolog.Logger
}

// NewSFTPClient creates a new SFTP transfer client.
func NewSFTPClient(logger zerolog.Logger) ports.FileTransferClient {
	return &SFTPClient{
		logger: logger,
	}
}

// List returns remote file names under cfg.Directory matching
// cfg.FilePattern ("*" or empty matches everything).
func (c *SFTPClient) List(ctx context.Context, cfg ports.SFTPConfig) ([]string, error) {
	client, closer, err := c.dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closer()

	dir := cfg.Directory
	if dir == "" {
		dir = "/"
	}
	entries, err := client.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", dir, err)
	}

	pattern := cfg.FilePattern
	if pattern == "" {
		pattern = "*"
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := path.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if matched {
			names = append(names, entry.Name())
		}
	}

	c.logger.Debug().
		Str("host", cfg.Host).
		Str("directory", dir).
		Str("pattern", pattern).
		Int("matches", len(names)).
		Msg("Listed remote files")

	return names, nil
}

// Download fetches a remote file and returns its contents.
func (c *SFTPClient) Download(ctx context.Context, cfg ports.SFTPConfig, name string) ([]byte, error) {
	client, closer, err := c.dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closer()

	remotePath := path.Join(cfg.Directory, name)
	f, err := client.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", remotePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote file %s: %w", remotePath, err)
	}

	c.logger.Debug().
		Str("host", cfg.Host).
		Str("file", remotePath).
		Int("bytes", len(data)).
		Msg("Downloaded remote file")

	return data, nil
}

// Upload writes r to a remote file under cfg.Directory.
func (c *SFTPClient) Upload(ctx context.Context, cfg ports.SFTPConfig, name string, r io.Reader) error {
	client, closer, err := c.dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	remotePath := path.Join(cfg.Directory, name)
	f, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remotePath, err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return fmt.Errorf("failed to write remote file %s: %w", remotePath, err)
	}

	c.logger.Debug().
		Str("host", cfg.Host).
		Str("file", remotePath).
		Int64("bytes", written).
		Msg("Uploaded remote file")

	return nil
}

// dial opens an SSH connection and SFTP subsystem. The returned closer
// tears both down.
func (c *SFTPClient) dial(ctx context.Context, cfg ports.SFTPConfig) (*sftp.Client, func(), error) {
	if cfg.Host == "" {
		return nil, nil, fmt.Errorf("sftp host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 22
	}

	var auth []ssh.AuthMethod
	if len(cfg.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	if len(auth) == 0 {
		return nil, nil, fmt.Errorf("sftp credentials are required")
	}

	sshCfg := &ssh.ClientConfig{
		User: cfg.Username,
		Auth: auth,
		// vendor endpoints are configured out-of-band, host keys are not
		// pinned in connection configs
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if err != nil {
		tcpConn.Close()
		return nil, nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	conn := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to start sftp subsystem: %w", err)
	}

	closer := func() {
		client.Close()
		conn.Close()
	}
	return client, closer, nil
}

package docker

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types"

	"testbench/internal/sandbox/scaffold"
)

func copyToContainerOptions() types.CopyToContainerOptions {
	return types.CopyToContainerOptions{AllowOverwriteDirWithFile: true}
}

func makeArchive(files []scaffold.FileSpec) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	now := time.Now()
	for _, file := range files {
		mode := file.Mode
		if mode == 0 {
			mode = 0o644
		}

		header := &tar.Header{
			Name:    file.Name,
			Mode:    mode,
			Size:    int64(len(file.Data)),
			ModTime: now,
		}

		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("write tar header: %w", err)
		}
		if _, err := tw.Write(file.Data); err != nil {
			return nil, fmt.Errorf("write tar contents: %w", err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar writer: %w", err)
	}

	return bytes.NewReader(buf.Bytes()), nil
}

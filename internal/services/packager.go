package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mmo/mmopack/internal/checksum"
	"github.com/mmo/mmopack/pkg/release"
)

// PackagingService implements the Packager interface.
// Thread-Safety: NOT safe for concurrent Package() calls targeting the same
// archive path. Distinct destinations may be packaged concurrently.
type PackagingService struct {
	builder   release.Builder
	resolver  release.VersionResolver
	manifests release.ManifestBuilder
	assembler release.Assembler
	approver  release.Approver
	logger    release.Logger
	calc      checksum.SHA256
	now       func() time.Time
}

// NewPackagingService creates a PackagingService with all dependencies injected.
// Panics on nil dependencies: these are programmer errors caught at startup.
func NewPackagingService(
	builder release.Builder,
	resolver release.VersionResolver,
	manifests release.ManifestBuilder,
	assembler release.Assembler,
	approver release.Approver,
	logger release.Logger,
) *PackagingService {
	if builder == nil {
		panic("builder cannot be nil")
	}
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if manifests == nil {
		panic("manifests cannot be nil")
	}
	if assembler == nil {
		panic("assembler cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &PackagingService{
		builder:   builder,
		resolver:  resolver,
		manifests: manifests,
		assembler: assembler,
		approver:  approver,
		logger:    logger,
		calc:      checksum.New(),
		now:       time.Now,
	}
}

// Package runs the release sequence. Each step must succeed before the next
// starts; the first error aborts the run and no archive is written.
func (s *PackagingService) Package(ctx context.Context, cfg release.Config) (release.Result, error) {
	start := s.now()

	if err := cfg.Validate(); err != nil {
		return release.Result{}, err
	}

	if err := s.builder.Build(ctx, cfg); err != nil {
		return release.Result{}, err
	}

	plan, err := s.plan(ctx, cfg)
	if err != nil {
		return release.Result{}, err
	}
	s.logger.Verbose("Release %s: %d entries, %d bytes uncompressed", plan.Version, len(plan.Manifest.Entries), plan.Manifest.TotalSize())

	if plan.Exists && !cfg.Force {
		approved, err := s.approver.RequestApproval(ctx, plan.ArchivePath, plan.Version)
		if err != nil {
			return release.Result{}, fmt.Errorf("approval failed: %w", err)
		}
		if !approved {
			return release.Result{}, fmt.Errorf("%s was not replaced: %w", plan.ArchivePath, release.ErrApprovalDenied)
		}
	}

	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(filepath.Dir(plan.ArchivePath), 0o755); err != nil {
			return release.Result{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	info, err := s.assembler.Write(ctx, plan.Manifest, plan.Version, plan.ArchivePath)
	if err != nil {
		return release.Result{}, fmt.Errorf("failed to write archive: %w", err)
	}

	result := release.Result{
		Version:     plan.Version,
		ArchivePath: info.Path,
		ReleaseID:   info.ReleaseID,
		Entries:     info.Entries,
		Size:        info.Size,
	}

	if cfg.Checksum {
		path, sum, err := checksum.WriteSidecar(s.calc, info.Path)
		if err != nil {
			return result, fmt.Errorf("failed to write checksum: %w", err)
		}
		s.logger.Verbose("SHA-256 %s", sum)
		result.ChecksumPath = path
	}

	result.Duration = s.now().Sub(start)
	return result, nil
}

// Plan resolves the version, output path and manifest without building or
// writing anything.
func (s *PackagingService) Plan(ctx context.Context, cfg release.Config) (release.Plan, error) {
	if err := cfg.Validate(); err != nil {
		return release.Plan{}, err
	}
	return s.plan(ctx, cfg)
}

func (s *PackagingService) plan(ctx context.Context, cfg release.Config) (release.Plan, error) {
	if err := ctx.Err(); err != nil {
		return release.Plan{}, err
	}

	version, err := s.resolver.Resolve(cfg)
	if err != nil {
		return release.Plan{}, err
	}
	s.logger.Verbose("Resolved version %s", version)

	dest, err := cfg.ArchivePath(version)
	if err != nil {
		return release.Plan{}, err
	}

	manifest, err := s.manifests.Collect(cfg)
	if err != nil {
		return release.Plan{}, err
	}

	exists, err := archiveExists(dest)
	if err != nil {
		return release.Plan{}, err
	}

	return release.Plan{
		Version:     version,
		ArchivePath: dest,
		Manifest:    manifest,
		Exists:      exists,
	}, nil
}

func archiveExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("output path %s is a directory: %w", path, release.ErrInvalidConfig)
	}
	return true, nil
}

var _ release.Packager = (*PackagingService)(nil)

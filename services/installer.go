package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modkeeper/internal/archive"
	"modkeeper/internal/download"
	"modkeeper/internal/integrity"
	"modkeeper/internal/logger"
	"modkeeper/internal/models"

	"github.com/hashicorp/go-version"
)

// Settings 安装目录布局
type Settings interface {
	ManagedFolder() string
	ModsFolder() string
	DisabledFolder() string
	AutoRemoveDeps() bool
}

// ModSource 持久化已安装状态
type ModSource interface {
	ApiInstall() models.State
	RecordInstalledState(mod *models.Mod) error
	RecordUninstall(mod *models.Mod) error
	RecordApiState(state models.State) error
}

// ModDatabase 提供目录中的全部模组
type ModDatabase interface {
	Items() []*models.Mod
}

type Downloader interface {
	Download(ctx context.Context, url string, progress download.ProgressFunc) (*download.Result, error)
}

/**
 * Runtime support package description
 * @property {string} Url - Archive extracted over the managed folder
 * @property {string} Sha256 - Optional checksum, skipped when empty
 * @property {*version.Version} Version - Version recorded after install
 * @property {int} RequiredMajor - Installed major at or above this skips the install
 * @property {string} ActiveFile - Loader entry file name while enabled
 * @property {string} ShelvedFile - Loader entry file name while disabled
 */
type ApiSpec struct {
	Url           string
	Sha256        string
	Version       *version.Version
	RequiredMajor int
	ActiveFile    string
	ShelvedFile   string
}

/**
 * Installer performs install, uninstall, and toggle of mods and of the
 * runtime support package. Every public operation holds the gate for its
 * whole duration, so at most one of them mutates the filesystem or the
 * installed record at any time.
 */
type Installer struct {
	settings  Settings
	installed ModSource
	db        ModDatabase
	dl        Downloader
	api       ApiSpec
	gate      *Gate
}

func NewInstaller(settings Settings, installed ModSource, db ModDatabase, dl Downloader, api ApiSpec) *Installer {
	return &Installer{
		settings:  settings,
		installed: installed,
		db:        db,
		dl:        dl,
		api:       api,
		gate:      NewGate(),
	}
}

/**
 * Run fn while holding the gate
 * @param {context.Context} ctx - Abandons the gate wait
 * @param {func() error} fn - Work that must not overlap a mutating operation
 */
func (i *Installer) Exclusive(ctx context.Context, fn func() error) error {
	if err := i.gate.Acquire(ctx); err != nil {
		return err
	}
	defer i.gate.Release()
	return fn()
}

/**
 * Flip a mod between the active and inactive roots
 * @param {context.Context} ctx - Abandons the gate wait
 * @param {*models.Mod} mod - Installed mod
 * @returns {error} ErrInvalidOperation if the mod is not installed
 * @description
 * - Enabling also enables installed-but-disabled dependencies, depth first
 * - Disabling leaves dependencies alone
 * - Files move only when they exist in the old root and not in the new one
 * - The Enabled flag flips and is recorded regardless of the move
 */
func (i *Installer) Toggle(ctx context.Context, mod *models.Mod) (err error) {
	start := time.Now()
	defer func() { observeOperation("toggle", start, err) }()

	if err = i.gate.Acquire(ctx); err != nil {
		return err
	}
	defer i.gate.Release()
	return i.toggle(mod, newTrail())
}

func (i *Installer) toggle(mod *models.Mod, trail *trail) error {
	state, ok := mod.State().(models.Installed)
	if !ok {
		return fmt.Errorf("%w: cannot toggle '%s' which is not installed", ErrInvalidOperation, mod.Name)
	}
	if err := trail.enter(mod.Name); err != nil {
		return err
	}
	defer trail.leave(mod.Name)

	if !state.Enabled {
		deps, err := i.resolve(mod)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			switch ds := dep.State().(type) {
			case models.NotInstalled:
				continue
			case models.Installed:
				if ds.Enabled {
					continue
				}
			default:
				return fmt.Errorf("%w: unexpected state %T of '%s'", ErrInvalidOperation, ds, dep.Name)
			}
			if err := i.toggle(dep, trail); err != nil {
				return err
			}
		}
	}

	if err := i.createNeededDirectories(); err != nil {
		return err
	}

	prev, after := i.settings.DisabledFolder(), i.settings.ModsFolder()
	if state.Enabled {
		prev, after = after, prev
	}
	prev, after = filepath.Join(prev, mod.Name), filepath.Join(after, mod.Name)

	// 已处于目标位置时保持原样
	if dirExists(prev) && !dirExists(after) {
		if err := os.Rename(prev, after); err != nil {
			return fmt.Errorf("move '%s' to '%s' failed: %w", prev, after, err)
		}
	}

	state.Enabled = !state.Enabled
	mod.SetState(state)
	logger.Infof("Mod '%s' is now %s", mod.Name, models.StateName(state))
	return i.installed.RecordInstalledState(mod)
}

/**
 * Make sure the runtime support package is present and enabled
 * @param {context.Context} ctx - Abandons the gate wait, the download then runs to completion
 * @returns {error} Download, checksum, extraction, or record errors
 * @description
 * - An installed but disabled package is enabled first
 * - Installed with major >= RequiredMajor is left as is
 * - Otherwise the archive is extracted over the managed folder
 */
func (i *Installer) InstallApi(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observeOperation("install-api", start, err) }()

	if err = i.gate.Acquire(ctx); err != nil {
		return err
	}
	defer i.gate.Release()

	if st, ok := i.installed.ApiInstall().(models.Installed); ok && !st.Enabled {
		if err = i.toggleApi(); err != nil {
			return err
		}
	}
	// 获取闸门后不再响应取消，仅受下载超时限制
	return i.installApi(context.WithoutCancel(ctx))
}

func (i *Installer) installApi(ctx context.Context) error {
	if st, ok := i.installed.ApiInstall().(models.Installed); ok {
		if st.Version != nil && st.Version.Segments()[0] >= i.api.RequiredMajor {
			return nil
		}
	}

	managed := i.settings.ManagedFolder()
	logger.Infof("Installing runtime support from '%s' into '%s'", i.api.Url, managed)
	res, err := i.dl.Download(ctx, i.api.Url, nil)
	if err != nil {
		return err
	}
	downloadBytes.Add(float64(len(res.Data)))
	if i.api.Sha256 != "" {
		if err := integrity.VerifySha256("runtime support", res.Data, i.api.Sha256); err != nil {
			return err
		}
	}
	if err := archive.SafeExtract(res.Data, managed); err != nil {
		return err
	}
	return i.installed.RecordApiState(models.Installed{Enabled: true, Version: i.api.Version, Updated: true})
}

/**
 * Enable or disable the runtime support package by renaming its entry file
 * @param {context.Context} ctx - Abandons the gate wait
 * @returns {error} ErrInvalidOperation if the package is not installed
 */
func (i *Installer) ToggleApi(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observeOperation("toggle-api", start, err) }()

	if err = i.gate.Acquire(ctx); err != nil {
		return err
	}
	defer i.gate.Release()
	return i.toggleApi()
}

func (i *Installer) toggleApi() error {
	st, ok := i.installed.ApiInstall().(models.Installed)
	if !ok {
		return fmt.Errorf("%w: runtime support is not installed", ErrInvalidOperation)
	}
	managed := i.settings.ManagedFolder()
	from, to := i.api.ShelvedFile, i.api.ActiveFile
	if st.Enabled {
		from, to = to, from
	}
	// os.Rename 会覆盖已存在的目标文件
	if err := os.Rename(filepath.Join(managed, from), filepath.Join(managed, to)); err != nil {
		return fmt.Errorf("rename '%s' to '%s' failed: %w", from, to, err)
	}
	st.Enabled = !st.Enabled
	logger.Infof("Runtime support is now %s", models.StateName(st))
	return i.installed.RecordApiState(st)
}

/**
 * Install or update a mod together with its dependencies
 * @param {context.Context} ctx - Abandons gate waits; once the gate is held the install runs to completion or failure
 * @param {*models.Mod} mod - Mod to install
 * @param {models.ProgressFunc} progress - Receives a start event, download samples of this mod, and a completion event; may be nil
 * @param {bool} enable - Install into the active root when true
 * @returns {error} Download, checksum, extraction, format, cycle, or record errors
 * @description
 * - Ensures runtime support first, in its own gate acquisition
 * - Dependencies not yet up to date are installed before the mod, depth first,
 *   enabled when enable is set or when they were not installed
 * - The checksum is verified before anything is written
 */
func (i *Installer) Install(ctx context.Context, mod *models.Mod, progress models.ProgressFunc, enable bool) (err error) {
	start := time.Now()
	defer func() { observeOperation("install", start, err) }()

	if err = i.InstallApi(ctx); err != nil {
		return err
	}
	if err = i.gate.Acquire(ctx); err != nil {
		return err
	}
	defer i.gate.Release()

	if progress == nil {
		progress = func(models.ModProgress) {}
	}
	if err = i.createNeededDirectories(); err != nil {
		return err
	}
	progress(models.ModProgress{})

	onDownload := func(p models.DownloadProgress) {
		progress(models.ModProgress{Download: &p})
	}
	if err = i.install(context.WithoutCancel(ctx), mod, onDownload, enable, newTrail()); err != nil {
		return err
	}
	progress(models.ModProgress{Completed: true})
	return nil
}

func (i *Installer) install(ctx context.Context, mod *models.Mod, progress download.ProgressFunc, enable bool, trail *trail) error {
	if err := trail.enter(mod.Name); err != nil {
		return err
	}
	defer trail.leave(mod.Name)

	deps, err := i.resolve(mod)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		var absent bool
		switch ds := dep.State().(type) {
		case models.Installed:
			if ds.Updated {
				continue
			}
		case models.NotInstalled:
			absent = true
		default:
			return fmt.Errorf("%w: unexpected state %T of '%s'", ErrInvalidOperation, ds, dep.Name)
		}
		if err := i.install(ctx, dep, nil, enable || absent, trail); err != nil {
			return err
		}
	}

	logger.Infof("Downloading '%s' from '%s'", mod.Name, mod.Link)
	res, err := i.dl.Download(ctx, mod.Link, progress)
	if err != nil {
		return err
	}
	downloadBytes.Add(float64(len(res.Data)))

	if err := integrity.VerifySha256(mod.Name, res.Data, mod.Sha256); err != nil {
		return err
	}

	filename := strings.Trim(res.FileName, `"`)
	ext := filepath.Ext(strings.ToLower(filename))

	baseFolder := i.settings.DisabledFolder()
	if enable {
		baseFolder = i.settings.ModsFolder()
	}
	modFolder := filepath.Join(baseFolder, mod.Name)

	switch ext {
	case ".zip":
		if err := archive.SafeExtract(res.Data, modFolder); err != nil {
			return err
		}
	case ".dll":
		if err := os.MkdirAll(modFolder, 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(modFolder, filepath.Base(filename)), res.Data, 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: '%s' for mod '%s'", ErrUnsupportedFormat, filename, mod.Name)
	}

	var next models.Installed
	switch st := mod.State().(type) {
	case models.Installed:
		if st.Enabled != enable {
			i.removeStale(mod.Name, st.Enabled)
		}
		next = st
		next.Version = mod.Version
		next.Updated = true
		next.Enabled = enable
	case models.NotInstalled:
		next = models.Installed{Enabled: enable, Version: mod.Version, Updated: true}
	default:
		return fmt.Errorf("%w: unexpected state %T of '%s'", ErrInvalidOperation, st, mod.Name)
	}
	mod.SetState(next)
	logger.Infof("Mod '%s' %s installed (%s)", mod.Name, mod.Version, models.StateName(next))
	return i.installed.RecordInstalledState(mod)
}

// removeStale 删除模组在另一根目录下的旧副本
func (i *Installer) removeStale(name string, wasEnabled bool) {
	stale := filepath.Join(i.settings.DisabledFolder(), name)
	if wasEnabled {
		stale = filepath.Join(i.settings.ModsFolder(), name)
	}
	if err := os.RemoveAll(stale); err != nil {
		logger.Warnf("Remove stale copy '%s' failed: %v", stale, err)
	}
}

/**
 * Remove a mod's files and mark it not installed
 * @param {context.Context} ctx - Abandons the gate wait
 * @param {*models.Mod} mod - Mod to remove; removing an absent mod is a no-op apart from the record
 * @returns {error} Filesystem or record errors
 * @description
 * - With AutoRemoveDeps, dependencies no other installed mod references are removed too
 */
func (i *Installer) Uninstall(ctx context.Context, mod *models.Mod) (err error) {
	start := time.Now()
	defer func() { observeOperation("uninstall", start, err) }()

	if err = i.gate.Acquire(ctx); err != nil {
		return err
	}
	defer i.gate.Release()

	if err = i.createNeededDirectories(); err != nil {
		return err
	}
	return i.uninstall(mod, newTrail())
}

func (i *Installer) uninstall(mod *models.Mod, trail *trail) error {
	// 环形依赖：上层已在删除该模组
	if trail.enter(mod.Name) != nil {
		return nil
	}
	defer trail.leave(mod.Name)

	base := i.settings.DisabledFolder()
	if st, ok := mod.State().(models.Installed); ok && st.Enabled {
		base = i.settings.ModsFolder()
	}
	dir := filepath.Join(base, mod.Name)
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove '%s' failed: %w", dir, err)
	}

	mod.SetState(models.NotInstalled{})
	if err := i.installed.RecordUninstall(mod); err != nil {
		return err
	}
	logger.Infof("Mod '%s' uninstalled", mod.Name)

	if !i.settings.AutoRemoveDeps() {
		return nil
	}

	deps, err := i.resolve(mod)
	if err != nil {
		return err
	}
	items := i.db.Items()
	for _, dep := range deps {
		if referencedByOther(items, mod, dep.Name) {
			continue
		}
		if err := i.uninstall(dep, trail); err != nil {
			return err
		}
		dep.SetState(models.NotInstalled{})
	}
	return nil
}

func referencedByOther(items []*models.Mod, self *models.Mod, dep string) bool {
	for _, x := range items {
		if x == self || !models.IsInstalled(x.State()) {
			continue
		}
		for _, d := range x.Dependencies {
			if d == dep {
				return true
			}
		}
	}
	return false
}

// resolve 按声明顺序把依赖名映射为目录项
func (i *Installer) resolve(mod *models.Mod) ([]*models.Mod, error) {
	if len(mod.Dependencies) == 0 {
		return nil, nil
	}
	byName := make(map[string]*models.Mod)
	for _, item := range i.db.Items() {
		byName[item.Name] = item
	}
	deps := make([]*models.Mod, 0, len(mod.Dependencies))
	for _, name := range mod.Dependencies {
		dep, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: dependency '%s' of '%s'", ErrModNotFound, name, mod.Name)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func (i *Installer) createNeededDirectories() error {
	if err := os.MkdirAll(i.settings.DisabledFolder(), 0755); err != nil {
		return err
	}
	return os.MkdirAll(i.settings.ModsFolder(), 0755)
}

// trail 记录当前递归路径上的模组，用于检测环形依赖
type trail struct {
	path  []string
	names map[string]bool
}

func newTrail() *trail {
	return &trail{names: make(map[string]bool)}
}

func (t *trail) enter(name string) error {
	if t.names[name] {
		return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, strings.Join(t.path, " -> "), name)
	}
	t.names[name] = true
	t.path = append(t.path, name)
	return nil
}

func (t *trail) leave(name string) {
	delete(t.names, name)
	t.path = t.path[:len(t.path)-1]
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

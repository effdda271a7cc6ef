package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// 已知游戏数据目录（GoG / Steam / Mac）
var KnownSuffixes = []string{
	"Hollow Knight_Data/Managed",
	"Haiku_Data/Managed",
	"Contents/Resources/Data/Managed",
}

const AssemblyFile = "Assembly-CSharp.dll"

var ErrInvalidGamePath = errors.New("invalid game path")

/**
 * Validated game directory
 * @property {string} Root - Directory used as the managed root
 * @property {string} Suffix - Data directory found below Root
 */
type ValidPath struct {
	Root   string
	Suffix string
}

/**
 * Check that a directory is a game installation
 * @param {string} root - Candidate game directory
 * @returns {*ValidPath} Root and the first matching data directory
 * @returns {error} ErrInvalidGamePath when root, the data directory, or the assembly is missing
 */
func ValidatePath(root string) (*ValidPath, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is not a directory", ErrInvalidGamePath, root)
	}
	for _, suffix := range KnownSuffixes {
		dir := filepath.Join(root, filepath.FromSlash(suffix))
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, AssemblyFile)); err != nil {
			return nil, fmt.Errorf("%w: missing %s in '%s'", ErrInvalidGamePath, AssemblyFile, dir)
		}
		return &ValidPath{Root: root, Suffix: suffix}, nil
	}
	return nil, fmt.Errorf("%w: no Managed folder below '%s'", ErrInvalidGamePath, root)
}

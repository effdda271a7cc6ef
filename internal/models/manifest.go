package models

import "runtime"

// Link 下载地址及其校验值
type Link struct {
	URL    string `json:"url"`
	Sha256 string `json:"sha256"`
}

/**
 * Download links of a manifest. Either Single is set, or one link per OS.
 */
type Links struct {
	Single  *Link `json:"single,omitempty"`
	Windows *Link `json:"windows,omitempty"`
	Mac     *Link `json:"mac,omitempty"`
	Linux   *Link `json:"linux,omitempty"`
}

/**
 * Select the link matching an operating system
 * @param {string} goos - Value in runtime.GOOS form
 * @returns {*Link} Matching link, nil when the manifest has none for the OS
 */
func (l Links) ForOS(goos string) *Link {
	if l.Single != nil {
		return l.Single
	}
	switch goos {
	case "windows":
		return l.Windows
	case "darwin":
		return l.Mac
	default:
		return l.Linux
	}
}

// Current 返回当前系统对应的下载地址
func (l Links) Current() *Link {
	return l.ForOS(runtime.GOOS)
}

/**
 * One catalog entry as published by the remote catalog
 */
type Manifest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Version      string   `json:"version"`
	Repository   string   `json:"repository"`
	Links        Links    `json:"links"`
	Dependencies []string `json:"dependencies"`
}

// ModLinks 远程目录
type ModLinks struct {
	Manifests []Manifest `json:"manifests"`
}

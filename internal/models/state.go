package models

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

/**
 * Installation state of a mod or of the runtime support package.
 * Exactly two variants exist: NotInstalled and Installed. Consumers
 * switch on the concrete type and treat anything else as an error.
 */
type State interface {
	isState()
}

// NotInstalled 未安装
type NotInstalled struct{}

/**
 * Installed state
 * @property {bool} Enabled - Files live in the active root when true, the inactive root otherwise
 * @property {*version.Version} Version - Version of the files on disk
 * @property {bool} Updated - Installed version matches the catalog version
 */
type Installed struct {
	Enabled bool
	Version *version.Version
	Updated bool
}

func (NotInstalled) isState() {}
func (Installed) isState()    {}

const (
	StateNotInstalled = "not-installed"
	StateEnabled      = "enabled"
	StateDisabled     = "disabled"
)

// StateName 返回状态的展示名称
func StateName(s State) string {
	switch st := s.(type) {
	case NotInstalled:
		return StateNotInstalled
	case Installed:
		if st.Enabled {
			return StateEnabled
		}
		return StateDisabled
	default:
		return fmt.Sprintf("unknown(%T)", s)
	}
}

// IsInstalled 判断是否处于已安装状态
func IsInstalled(s State) bool {
	_, ok := s.(Installed)
	return ok
}

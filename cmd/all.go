package cmd

import (
	_ "modkeeper/cmd/api"
	_ "modkeeper/cmd/mod"
	_ "modkeeper/cmd/path"
	_ "modkeeper/cmd/remote"
	_ "modkeeper/cmd/root"
	_ "modkeeper/cmd/server"
)

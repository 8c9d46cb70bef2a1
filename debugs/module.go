package debugs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/configs"
	"github.com/reusee/plaintest/logs"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs configs.Module
}

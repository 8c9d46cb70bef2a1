package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/plaintest/debugs"
	"github.com/reusee/plaintest/history"
	"github.com/reusee/plaintest/reports"
	"github.com/reusee/plaintest/subjects"
	"github.com/reusee/plaintest/suites"
)

type Module struct {
	dscope.Module
	Suites   suites.Module
	Subjects subjects.Module
	Debugs   debugs.Module
	Reports  reports.Module
	History  history.Module
}

package app

import (
	"fmt"
	"runtime"
)

type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

var build = buildInfo{Version: "dev", Commit: "none", Date: "unknown"}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		build.Version = version
	}
	if commit != "" {
		build.Commit = commit
	}
	if date != "" {
		build.Date = date
	}
}

func currentBuildInfo() buildInfo {
	info := build
	info.Go = runtime.Version()
	return info
}

func BuildVersionString() string {
	return fmt.Sprintf("%s (%s) %s", build.Version, build.Commit, build.Date)
}

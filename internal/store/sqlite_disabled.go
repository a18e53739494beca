//go:build !sqlite
// +build !sqlite

package store

import (
	"errors"

	"github.com/kledx/mbc20-claw/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	_ = cfg
	_ = log
	return nil, errors.New("sqlite history not built: build with -tags sqlite")
}

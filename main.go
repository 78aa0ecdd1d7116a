package main

import (
	"context"
	"time"

	ftpserver "github.com/fclairamb/ftpserverlib"
	"go.uber.org/zap"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/browser"
	"github.com/ChiHao144/CloudStorageApp/config"
	"github.com/ChiHao144/CloudStorageApp/ftp"
	"github.com/ChiHao144/CloudStorageApp/session"
	"github.com/ChiHao144/CloudStorageApp/store"
	"github.com/ChiHao144/CloudStorageApp/sync"
	"github.com/ChiHao144/CloudStorageApp/tasks"
	"github.com/ChiHao144/CloudStorageApp/web"
)

func main() {
	cnf := config.Load()

	logger := newLogger(cnf.App.Dev)
	defer logger.Sync()

	sess := session.NewStore(cnf.App.StatePath, logger)
	sess.Restore()

	client := api.NewClient(cnf.Backend, logger)
	br := browser.New(client, sess, logger)

	ctx := context.Background()
	monitor := tasks.NewMonitor(ctx)

	var accounts *store.Accounts
	if cnf.DB.DSN != "" {
		db, err := store.Open(cnf.DB.DSN)
		if err != nil {
			logger.Fatal("open account store", zap.Error(err))
		}

		accounts = store.NewAccounts(db)
	}

	go web.Listen(cnf, client, sess, br, monitor, accounts)

	if accounts != nil && cnf.FTP != nil {
		driver := ftp.NewDriver(accounts, client, cnf.App.TempPath, cnf.FTP, logger)

		go func() {
			if err := ftpserver.NewFtpServer(driver).ListenAndServe(); err != nil {
				logger.Fatal("ftp server", zap.Error(err))
			}
		}()
	}

	if cnf.Sync.Path != "" {
		engine := sync.NewEngine(cnf.Sync.Path, client, sess, monitor, logger)

		go func() {
			debounce := sync.NewDebounce(time.Duration(cnf.Sync.Debounce))
			if err := engine.Listen(ctx, debounce); err != nil {
				logger.Fatal("sync listener", zap.Error(err))
			}
		}()
	}

	select {}
}

func newLogger(dev bool) *zap.Logger {
	newFn := zap.NewProduction
	if dev {
		newFn = zap.NewDevelopment
	}

	logger, err := newFn()
	if err != nil {
		panic(err)
	}

	return logger
}

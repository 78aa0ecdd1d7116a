// Package ftp serves the cloud drive to plain FTP clients. Each FTP
// login maps through the account store onto backend credentials.
package ftp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	ftpserver "github.com/fclairamb/ftpserverlib"
	"go.uber.org/zap"

	"github.com/ChiHao144/CloudStorageApp/afero_cloud"
	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/store"
)

var _ ftpserver.MainDriver = (*Driver)(nil)

type Driver struct {
	accounts *store.Accounts
	client   *api.Client
	tempPath string

	settings *ftpserver.Settings

	logger *zap.Logger
}

func NewDriver(accounts *store.Accounts, client *api.Client, tempPath string, settings *ftpserver.Settings, logger *zap.Logger) *Driver {
	return &Driver{
		accounts: accounts,
		client:   client,
		tempPath: tempPath,
		settings: settings,
		logger:   logger,
	}
}

func (d *Driver) GetSettings() (*ftpserver.Settings, error) {
	return d.settings, nil
}

func (d *Driver) ClientConnected(cc ftpserver.ClientContext) (string, error) {
	d.logger.Info("ftp client connected",
		zap.String("remote", cc.RemoteAddr().String()),
		zap.Uint32("id", cc.ID()))

	return "CloudStorage", nil
}

func (d *Driver) ClientDisconnected(cc ftpserver.ClientContext) {}

// AuthUser resolves the FTP login to a gateway account and hands back
// the cloud drive authenticated with that account's backend
// credentials.
func (d *Driver) AuthUser(cc ftpserver.ClientContext, user, pass string) (ftpserver.ClientDriver, error) {
	logger := d.logger.With(zap.String("user", user))

	account, err := d.accounts.Authenticate(context.Background(), user, pass)
	if err != nil {
		if errors.Is(err, store.ErrAuthFailed) {
			return nil, err
		}

		return nil, fmt.Errorf("authenticate: %w", err)
	}

	creds := api.Credentials{Username: account.CloudUsername, Password: account.CloudPassword}
	drive := afero_cloud.NewDrive(d.client, creds, d.tempPath, logger)

	return afero_cloud.NewWrapper(drive, logger), nil
}

func (d *Driver) GetTLSConfig() (*tls.Config, error) {
	return nil, nil
}

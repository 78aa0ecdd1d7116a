package web

import (
	"net/http"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/browser"
	"github.com/ChiHao144/CloudStorageApp/config"
	"github.com/ChiHao144/CloudStorageApp/session"
	"github.com/ChiHao144/CloudStorageApp/store"
	"github.com/ChiHao144/CloudStorageApp/tasks"
)

func Listen(conf config.Config, client *api.Client, sess *session.Store, br *browser.Browser, monitor *tasks.Monitor, accounts *store.Accounts) {
	err := http.ListenAndServe(conf.App.WebListen, NewRouter(conf, client, sess, br, monitor, accounts))

	panic(err)
}

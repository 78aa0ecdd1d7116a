package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/browser"
	"github.com/ChiHao144/CloudStorageApp/config"
	"github.com/ChiHao144/CloudStorageApp/session"
	"github.com/ChiHao144/CloudStorageApp/store"
	"github.com/ChiHao144/CloudStorageApp/tasks"
	"github.com/ChiHao144/CloudStorageApp/web/handler"
)

func NewRouter(conf config.Config, client *api.Client, sess *session.Store, br *browser.Browser, monitor *tasks.Monitor, accounts *store.Accounts) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer,
		middleware.RealIP,
		middleware.Logger,
		middleware.Compress(6),
		CORS,
		middleware.RedirectSlashes,
		middleware.CleanPath,
		IPWhitelist(conf.App.IPWhitelist),
	)

	h := handler.NewHandler(client, sess, br, monitor, accounts, conf.App.TemplatePath)

	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)

	// Provider redirects land here without a local session.
	r.Get("/payment/momo/callback", h.MoMoCallback)
	r.Get("/payment/zalopay/callback", h.ZaloPayCallback)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(sess))

		r.Get("/", h.Dashboard)
		r.Post("/navigate", h.Navigate)
		r.Post("/back", h.GoBack)
		r.Post("/open", h.Open)
		r.Post("/preview/close", h.ClosePreview)
		r.Get("/download", h.Download)
		r.Post("/delete", h.Delete)

		r.Post("/move/start", h.MoveStart)
		r.Post("/move/confirm", h.MoveConfirm)
		r.Post("/move/cancel", h.MoveCancel)

		r.Post("/share/open", h.ShareOpen)
		r.Post("/share/close", h.ShareClose)
		r.Post("/share/user", h.ShareToUser)
		r.Post("/share/public", h.SharePublic)
		r.Post("/share/delete", h.ShareDelete)

		r.Get("/upload", h.UploadPage)
		r.Post("/upload", h.Upload)

		r.Get("/profile", h.ProfilePage)
		r.Post("/profile", h.ProfileUpdate)

		r.Get("/payment", h.PaymentPage)
		r.Post("/payment", h.PaymentSubmit)

		r.Get("/api/files/list", handler.Wrap(h.Files))
		r.Get("/api/quota", handler.Wrap(h.Quota))
		r.Get("/api/tasks", handler.Wrap(h.Tasks))
		r.Delete("/api/files/delete", handler.Wrap(h.DeletePath))
		r.Post("/api/ftp-accounts", handler.Wrap(h.CreateFTPAccount))
	})

	return r
}

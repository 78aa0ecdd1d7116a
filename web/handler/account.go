package handler

import (
	"net/http"
	"time"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/payment"
)

func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r)

	creds, err := h.session.Credentials()
	if err != nil {
		redirectErr(w, r, "/login", err.Error())
		return
	}

	profile, err := h.client.Profile(r.Context(), creds)
	if err != nil {
		data.Err = api.Message(err)
		h.render(w, "profile", data)
		return
	}

	if data.Tier == "" && profile.Quota != nil {
		data.Tier = payment.TierFor(profile.Quota.TotalBytes())
	}

	h.render(w, "profile", data)
}

func (h *Handler) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	creds, err := h.session.Credentials()
	if err != nil {
		redirectErr(w, r, "/login", err.Error())
		return
	}

	update := api.ProfileUpdate{
		DisplayName: r.FormValue("displayname"),
		Email:       r.FormValue("email"),
		NewPassword: r.FormValue("new_password"),
	}

	if err := h.client.UpdateProfile(r.Context(), creds, update); err != nil {
		redirectErr(w, r, "/profile", api.Message(err))
		return
	}

	// The backend rotates the storage password together with the
	// account password, so the stored one has to follow.
	if update.NewPassword != "" {
		if err := h.session.Login(creds.Username, update.NewPassword); err != nil {
			redirectErr(w, r, "/profile", err.Error())
			return
		}
	}

	redirectMsg(w, r, "/profile", "profile updated")
}

func (h *Handler) PaymentPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "payment", h.page(r))
}

// PaymentSubmit kicks off a checkout with the selected provider and
// redirects the browser to its hosted payment page.
func (h *Handler) PaymentSubmit(w http.ResponseWriter, r *http.Request) {
	creds, err := h.session.Credentials()
	if err != nil {
		redirectErr(w, r, "/login", err.Error())
		return
	}

	plan, ok := payment.PlanByName(r.FormValue("plan"))
	if !ok {
		redirectErr(w, r, "/payment", "unknown plan")
		return
	}

	switch provider := r.FormValue("provider"); provider {
	case "momo":
		payURL, err := h.client.CreateMoMoPayment(r.Context(), creds.Username, plan.Name, plan.AmountUSD)
		if err != nil {
			redirectErr(w, r, "/payment", api.Message(err))
			return
		}
		redirect(w, r, payURL)

	case "zalopay":
		transID := payment.NewAppTransID(time.Now())
		orderURL, err := h.client.CreateZaloPayPayment(r.Context(), creds.Username, plan.Name, transID, plan.AmountUSD)
		if err != nil {
			redirectErr(w, r, "/payment", api.Message(err))
			return
		}
		redirect(w, r, orderURL)

	default:
		if _, err := h.client.MakePayment(r.Context(), creds.Username, plan.AmountUSD); err != nil {
			redirectErr(w, r, "/payment", api.Message(err))
			return
		}
		redirectMsg(w, r, "/", "payment accepted")
	}
}

// MoMoCallback is where MoMo lands the browser after checkout. The
// plan and user ride in on the order description, so a successful
// payment can upgrade the account even when the local session changed
// in between.
func (h *Handler) MoMoCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("resultCode") != payment.MoMoSuccessCode {
		msg := q.Get("message")
		if msg == "" {
			msg = "payment was not completed"
		}
		redirectErr(w, r, "/payment", msg)
		return
	}

	plan, user, err := payment.ParseMoMoOrderInfo(q.Get("orderInfo"))
	if err != nil {
		redirectErr(w, r, "/payment", "payment succeeded but the order could not be matched to an account")
		return
	}

	if err := h.client.UpgradeAccount(r.Context(), user, plan); err != nil {
		redirectErr(w, r, "/payment", "payment succeeded but the upgrade failed: "+api.Message(err))
		return
	}

	redirectMsg(w, r, "/", "account upgraded to "+plan)
}

// ZaloPayCallback handles the return redirect from ZaloPay. The
// backend confirms the transaction server side from the app
// transaction id.
func (h *Handler) ZaloPayCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("status") != payment.ZaloPaySuccessStatus {
		redirectErr(w, r, "/payment", "payment was not completed")
		return
	}

	confirmation, err := h.client.ConfirmZaloPayPayment(r.Context(), q.Get("appTransId"), q.Get("status"))
	if err != nil {
		redirectErr(w, r, "/payment", api.Message(err))
		return
	}

	if err := h.client.UpgradeAccount(r.Context(), confirmation.UserName, confirmation.PlanName); err != nil {
		redirectErr(w, r, "/payment", "payment succeeded but the upgrade failed: "+api.Message(err))
		return
	}

	redirectMsg(w, r, "/", "account upgraded to "+confirmation.PlanName)
}

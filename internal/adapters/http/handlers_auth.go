package web

import (
	"errors"
	"net/http"
	"strings"

	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/domain/form"
)

// Flash texts for registration and login.
const (
	msgRegistered         = "Registration successful!"
	msgTrialRegistered    = "Free trial registration successful!"
	msgInvalidCredentials = "Invalid credentials"
)

const freeTrialPath = "/free-trial-register/"

// formErrors extracts field errors from an orchestrator error.
func formErrors(err error) (form.Errors, bool) {
	var errs form.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// redisplayValues drops password fields before a form is rendered back.
func redisplayValues(v form.Values) form.Values {
	out := make(form.Values, len(v))
	for k, val := range v {
		if strings.Contains(k, "password") {
			continue
		}
		out[k] = val
	}
	return out
}

// handleRegister handles GET (form) and POST (create) for /register/ and /free-trial-register/.
// The path selects member or trial registration.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	trial := r.URL.Path == freeTrialPath
	templateName := "register.html"
	schema := orchestrators.MemberSchema
	if trial {
		templateName = "free_trial_register.html"
		schema = orchestrators.TrialSchema
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderTemplate(w, r, templateName, map[string]any{"Values": form.Values{}, "Errors": form.Errors(nil)})
		return
	case http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	values := schema.Bind(r.PostForm)

	var err error
	var warnings []string
	if trial {
		_, err = orchestrators.ExecuteRegisterTrial(r.Context(), orchestrators.RegisterTrialInput{Values: values}, orchestrators.RegisterTrialDeps{
			TrialStore: stores.TrialStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
	} else {
		var result orchestrators.RegisterMemberResult
		result, err = orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{Values: values}, orchestrators.RegisterMemberDeps{
			AccountStore: stores.AccountStore,
			MemberStore:  stores.MemberStore,
			PlanStore:    stores.PlanStore,
			Mailer:       emailSender,
			DefaultPlan:  defaultPlanName,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		warnings = result.Warnings
	}

	if errs, ok := formErrors(err); ok {
		flashFormErrors(w, r, "", errs)
		renderTemplate(w, r, templateName, map[string]any{
			"Values": redisplayValues(values),
			"Errors": errs,
		})
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	if trial {
		perfCollector.CountEvent("trial_registered")
		addFlash(w, r, middleware.FlashSuccess, msgTrialRegistered)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	perfCollector.CountEvent("member_registered")
	for _, warning := range warnings {
		addFlash(w, r, middleware.FlashError, warning)
	}
	addFlash(w, r, middleware.FlashSuccess, msgRegistered)
	http.Redirect(w, r, "/login/", http.StatusFound)
}

// handleLogin handles GET (form) and POST (authenticate) for /login/
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard/", http.StatusFound)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{"Username": ""})
		return
	case http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	if errors.Is(err, orchestrators.ErrInvalidCredentials) {
		addFlash(w, r, middleware.FlashError, msgInvalidCredentials)
		renderTemplate(w, r, "login.html", map[string]any{"Username": input.Username})
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	if err := middleware.StartSession(w, r, result.AccountID, result.Username); err != nil {
		internalError(w, r, err)
		return
	}
	perfCollector.CountEvent("login")
	http.Redirect(w, r, "/dashboard/", http.StatusFound)
}

// handleLogout revokes every access flag, ends the session and returns home.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := middleware.EndSession(w, r); err != nil {
		internalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

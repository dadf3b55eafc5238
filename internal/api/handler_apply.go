package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"meeting-reservation-backend/internal/dateutil"
	"meeting-reservation-backend/internal/model"
)

type applyRequest struct {
	Name            string      `json:"name"`
	Age             json.Number `json:"age"`
	Gender          string      `json:"gender"`
	Phone           string      `json:"phone"`
	KakaoID         string      `json:"kakaoId"`
	Location        string      `json:"location"`
	PreferredGender string      `json:"preferredGender"`
	Note            string      `json:"note"`
	DesiredDate     string      `json:"desiredDate"`
	AgreePrivacy    bool        `json:"agreePrivacy"`
	// Website is a honeypot; humans never see the field, so any value marks
	// the submission as automated.
	Website string `json:"website"`
}

// validate checks structural bounds and returns the normalized draft plus an
// issue list. Issues are logged server-side only; callers get a generic reply.
func (r *applyRequest) validate() (model.Application, []string) {
	var issues []string

	name := strings.TrimSpace(r.Name)
	if name == "" || len([]rune(name)) > 50 {
		issues = append(issues, "name must be 1-50 characters")
	}

	gender, ok := model.ParseGender(strings.TrimSpace(r.Gender))
	if !ok {
		issues = append(issues, fmt.Sprintf("unknown gender %q", r.Gender))
	}

	phone := strings.TrimSpace(r.Phone)
	if phone == "" || len(phone) > 20 {
		issues = append(issues, "phone must be 1-20 characters")
	}

	// An age that does not parse is stored as null; one that parses but is
	// implausible is rejected.
	var age *int
	if r.Age.String() != "" {
		if v, err := r.Age.Int64(); err == nil {
			n := int(v)
			if n < 10 || n > 99 {
				issues = append(issues, fmt.Sprintf("implausible age %d", n))
			}
			age = &n
		}
	}

	var desiredDate *string
	if d := strings.TrimSpace(r.DesiredDate); d != "" {
		canonical, err := dateutil.ParseDate(d)
		if err != nil {
			issues = append(issues, fmt.Sprintf("invalid desired date %q", d))
		} else {
			desiredDate = &canonical
		}
	}

	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"kakaoId", r.KakaoID, 50},
		{"location", r.Location, 100},
		{"preferredGender", r.PreferredGender, 50},
		{"note", r.Note, 500},
	} {
		if len([]rune(f.value)) > f.max {
			issues = append(issues, fmt.Sprintf("%s exceeds %d characters", f.name, f.max))
		}
	}

	app := model.Application{
		Name:            name,
		Age:             age,
		Gender:          gender,
		Phone:           phone,
		KakaoID:         optional(r.KakaoID),
		Location:        optional(r.Location),
		PreferredGender: optional(r.PreferredGender),
		Note:            optional(r.Note),
		DesiredDate:     desiredDate,
		Status:          model.StatusPending,
	}
	return app, issues
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// PostApply handles POST /api/apply.
func (h *Handler) PostApply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgBadInput)
		return
	}

	app, issues := req.validate()
	if len(issues) > 0 {
		log.Printf("Rejected application from %s: %s", c.ClientIP(), strings.Join(issues, "; "))
		badRequest(c, msgBadInput)
		return
	}

	// Suspected bot: report success, persist nothing.
	if strings.TrimSpace(req.Website) != "" {
		log.Printf("Honeypot tripped by %s; dropping submission", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if !req.AgreePrivacy {
		badRequest(c, "개인정보 수집 및 이용에 동의해주세요.")
		return
	}

	// Never trust the client's earlier availability check: capacity may have
	// filled between form render and submit.
	if app.DesiredDate != nil && app.Gender != model.GenderOther {
		avail, err := h.evaluator.Check(c.Request.Context(), *app.DesiredDate, app.Gender)
		if err != nil {
			log.Printf("Failed to re-check availability for %s: %v", *app.DesiredDate, err)
			serverError(c)
			return
		}
		if !avail.IsAvailable {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":       false,
				"message":  avail.Message,
				"isClosed": true,
			})
			return
		}
	}

	if err := h.store.CreateApplication(c.Request.Context(), &app); err != nil {
		log.Printf("Failed to store application: %v", err)
		serverError(c)
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(app.ID)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

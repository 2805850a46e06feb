// Package analytics считает агрегаты по инцидентам. Функции Compute* чистые и работают
// над проекциями инцидентов, Engine загружает данные из хранилища и справочника пользователей.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
)

const (
	// RecentWindow - окно для счетчика недавних инцидентов в общей статистике
	RecentWindow = 30 * 24 * time.Hour

	DefaultDays  = 30
	DefaultLimit = 10
	MaxLimit     = 100
)

// Period - шаг временного ряда
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod приводит строку к шагу ряда, неизвестные значения дают шаг в один день
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	}
	return PeriodDay
}

// Overall - сводная статистика
type Overall struct {
	TotalIncidents    int64 `json:"totalIncidents"`
	ReportedIncidents int64 `json:"reportedIncidents"`
	VerifiedIncidents int64 `json:"verifiedIncidents"`
	RejectedIncidents int64 `json:"rejectedIncidents"`
	ResolvedIncidents int64 `json:"resolvedIncidents"`
	RecentIncidents   int64 `json:"recentIncidents"`
	TotalUsers        int64 `json:"totalUsers"`
	ActiveUsers       int64 `json:"activeUsers"`
}

// TypeStat - счетчики по одному типу инцидента
type TypeStat struct {
	Type     models.IncidentType `json:"type"`
	Count    int64               `json:"count"`
	Verified int64               `json:"verified"`
	Resolved int64               `json:"resolved"`
}

// StatusStat - количество инцидентов в одном статусе
type StatusStat struct {
	Status models.Status `json:"status"`
	Count  int64         `json:"count"`
}

// Bucket - точка временного ряда. Заполняются только поля, относящиеся к шагу ряда:
// день (Year, Month, Day), ISO-неделя (Year, Week), месяц (Year, Month).
type Bucket struct {
	Year     int   `json:"year"`
	Month    int   `json:"month,omitempty"`
	Week     int   `json:"week,omitempty"`
	Day      int   `json:"day,omitempty"`
	Count    int64 `json:"count"`
	Verified int64 `json:"verified"`
	Resolved int64 `json:"resolved"`
}

// Reporter - автор сообщений в рейтинге
type Reporter struct {
	UserID   uuid.UUID `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Total    int64     `json:"totalIncidents"`
	Verified int64     `json:"verifiedIncidents"`
}

// Verification - статистика модерации
type Verification struct {
	Verified                 int64 `json:"verified"`
	Rejected                 int64 `json:"rejected"`
	Pending                  int64 `json:"pending"`
	AverageVerificationHours int64 `json:"averageVerificationTimeHours"`
}

// RecentIncident - инцидент с данными автора и модератора
type RecentIncident struct {
	*models.Incident
	Reporter *models.UserRef `json:"reporter,omitempty"`
	Verifier *models.UserRef `json:"verifier,omitempty"`
}

// RecentActivity - последние изменения инцидентов и новые пользователи
type RecentActivity struct {
	Incidents []RecentIncident `json:"recentIncidents"`
	Users     []models.User    `json:"recentUsers"`
}

// ComputeOverall считает общие счетчики без данных о пользователях
func ComputeOverall(snaps []models.IncidentSnapshot, now time.Time) Overall {
	var o Overall
	since := now.Add(-RecentWindow)
	for _, s := range snaps {
		o.TotalIncidents++
		switch s.Status {
		case models.StatusReported:
			o.ReportedIncidents++
		case models.StatusVerified:
			o.VerifiedIncidents++
		case models.StatusRejected:
			o.RejectedIncidents++
		case models.StatusResolved:
			o.ResolvedIncidents++
		}
		if !s.CreatedAt.Before(since) {
			o.RecentIncidents++
		}
	}
	return o
}

// ComputeByType группирует по типу. Порядок: по убыванию количества, при равенстве по имени типа.
func ComputeByType(snaps []models.IncidentSnapshot) []TypeStat {
	idx := make(map[models.IncidentType]*TypeStat)
	for _, s := range snaps {
		st, ok := idx[s.Type]
		if !ok {
			st = &TypeStat{Type: s.Type}
			idx[s.Type] = st
		}
		st.Count++
		switch s.Status {
		case models.StatusVerified:
			st.Verified++
		case models.StatusResolved:
			st.Resolved++
		}
	}

	out := make([]TypeStat, 0, len(idx))
	for _, st := range idx {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// ComputeByStatus группирует по статусу, порядок по убыванию количества
func ComputeByStatus(snaps []models.IncidentSnapshot) []StatusStat {
	counts := make(map[models.Status]int64)
	for _, s := range snaps {
		counts[s.Status]++
	}

	out := make([]StatusStat, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusStat{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// ComputeOverTime строит ряд за последние days дней. Пустые интервалы в ряд не попадают.
// Границы интервалов считаются в UTC.
func ComputeOverTime(snaps []models.IncidentSnapshot, period Period, days int, now time.Time) []Bucket {
	if days < 1 {
		days = DefaultDays
	}
	since := now.AddDate(0, 0, -days)

	type key struct{ year, month, week, day int }
	idx := make(map[key]*Bucket)
	for _, s := range snaps {
		if s.CreatedAt.Before(since) {
			continue
		}
		t := s.CreatedAt.UTC()
		var k key
		switch period {
		case PeriodWeek:
			k.year, k.week = t.ISOWeek()
		case PeriodMonth:
			k.year, k.month = t.Year(), int(t.Month())
		default:
			k.year, k.month, k.day = t.Year(), int(t.Month()), t.Day()
		}

		b, ok := idx[k]
		if !ok {
			b = &Bucket{Year: k.year, Month: k.month, Week: k.week, Day: k.day}
			idx[k] = b
		}
		b.Count++
		switch s.Status {
		case models.StatusVerified:
			b.Verified++
		case models.StatusResolved:
			b.Resolved++
		}
	}

	out := make([]Bucket, 0, len(idx))
	for _, b := range idx {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Day < b.Day
	})
	return out
}

// RankReporters возвращает limit авторов с наибольшим числом сообщений,
// при равенстве порядок по идентификатору
func RankReporters(snaps []models.IncidentSnapshot, limit int) []Reporter {
	limit = clampLimit(limit)

	idx := make(map[uuid.UUID]*Reporter)
	for _, s := range snaps {
		r, ok := idx[s.ReportedBy]
		if !ok {
			r = &Reporter{UserID: s.ReportedBy}
			idx[s.ReportedBy] = r
		}
		r.Total++
		if s.Status == models.StatusVerified {
			r.Verified++
		}
	}

	ranked := make([]Reporter, 0, len(idx))
	for _, r := range idx {
		ranked = append(ranked, *r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].UserID.String() < ranked[j].UserID.String()
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ResolveReporters подставляет имя и почту. Авторы без учетной записи в users
// выпадают из результата, освободившиеся места не заполняются.
func ResolveReporters(ranked []Reporter, users map[uuid.UUID]models.User) []Reporter {
	out := make([]Reporter, 0, len(ranked))
	for _, r := range ranked {
		u, ok := users[r.UserID]
		if !ok {
			continue
		}
		r.Name, r.Email = u.Name, u.Email
		out = append(out, r)
	}
	return out
}

// ComputeTopReporters ранжирует авторов и затем разрешает их учетные записи
func ComputeTopReporters(snaps []models.IncidentSnapshot, users map[uuid.UUID]models.User, limit int) []Reporter {
	return ResolveReporters(RankReporters(snaps, limit), users)
}

// ComputeVerification считает статистику модерации. Среднее время проверки берется
// по всем инцидентам с заполненным verifiedAt и округляется до часа.
func ComputeVerification(snaps []models.IncidentSnapshot) Verification {
	var v Verification
	var sum time.Duration
	var n int64
	for _, s := range snaps {
		switch s.Status {
		case models.StatusVerified:
			v.Verified++
		case models.StatusRejected:
			v.Rejected++
		case models.StatusReported:
			v.Pending++
		}
		if s.VerifiedAt != nil {
			sum += s.VerifiedAt.Sub(s.CreatedAt)
			n++
		}
	}
	if n > 0 {
		v.AverageVerificationHours = int64(math.Round(sum.Hours() / float64(n)))
	}
	return v
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func userRef(u models.User) *models.UserRef {
	return &models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

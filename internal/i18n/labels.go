package i18n

import "strings"

// Labels 汇总模板需要的全部文案。
type Labels struct {
	Present string

	Summary               string
	Contacts              string
	Experience            string
	Projects              string
	TechSkills            string
	SoftSkills            string
	Skills                string
	Education             string
	Languages             string
	EmploymentPreferences string
	Certifications        string
	Activities            string
	Profile               string

	Email    string
	Phone    string
	Location string
	Telegram string
	GitHub   string
	LinkedIn string
	Website  string

	Role  string
	Stack string
	Link  string

	EmploymentType    string
	WorkFormat        string
	Relocation        string
	Timezone          string
	WorkAuthorization string
	Yes               string
	No                string

	OpenTo            string
	ReadyToRelocate   string
	NotReadyRelocate  string
	PreferredTimezone string
	Issued            string

	vocabulary map[string]string
}

var english = Labels{
	Present:               "Present",
	Summary:               "Summary",
	Contacts:              "Contacts",
	Experience:            "Experience",
	Projects:              "Projects",
	TechSkills:            "Technical skills",
	SoftSkills:            "Soft skills",
	Skills:                "Skills",
	Education:             "Education",
	Languages:             "Languages",
	EmploymentPreferences: "Employment preferences",
	Certifications:        "Certifications",
	Activities:            "Activities",
	Profile:               "Profile",
	Email:                 "Email",
	Phone:                 "Phone",
	Location:              "Location",
	Telegram:              "Telegram",
	GitHub:                "GitHub",
	LinkedIn:              "LinkedIn",
	Website:               "Website",
	Role:                  "Role",
	Stack:                 "Stack",
	Link:                  "Link",
	EmploymentType:        "Employment type",
	WorkFormat:            "Work format",
	Relocation:            "Relocation",
	Timezone:              "Timezone",
	WorkAuthorization:     "Work authorization",
	Yes:                   "Yes",
	No:                    "No",
	OpenTo:                "Open to",
	ReadyToRelocate:       "ready to relocate",
	NotReadyRelocate:      "not ready to relocate",
	PreferredTimezone:     "timezone",
	Issued:                "Issued",
	vocabulary: map[string]string{
		"full_time":  "full-time",
		"part_time":  "part-time",
		"contract":   "contract",
		"internship": "internship",
		"freelance":  "freelance",
		"office":     "office",
		"remote":     "remote",
		"hybrid":     "hybrid",
	},
}

var russian = Labels{
	Present:               "по настоящее время",
	Summary:               "О себе",
	Contacts:              "Контакты",
	Experience:            "Опыт работы",
	Projects:              "Проекты",
	TechSkills:            "Технические навыки",
	SoftSkills:            "Личные качества",
	Skills:                "Навыки",
	Education:             "Образование",
	Languages:             "Языки",
	EmploymentPreferences: "Пожелания к работе",
	Certifications:        "Сертификаты",
	Activities:            "Активности",
	Profile:               "Профиль",
	Email:                 "Email",
	Phone:                 "Телефон",
	Location:              "Город",
	Telegram:              "Telegram",
	GitHub:                "GitHub",
	LinkedIn:              "LinkedIn",
	Website:               "Сайт",
	Role:                  "Роль",
	Stack:                 "Стек",
	Link:                  "Ссылка",
	EmploymentType:        "Тип занятости",
	WorkFormat:            "Формат работы",
	Relocation:            "Переезд",
	Timezone:              "Часовой пояс",
	WorkAuthorization:     "Разрешение на работу",
	Yes:                   "Да",
	No:                    "Нет",
	OpenTo:                "Рассматриваю",
	ReadyToRelocate:       "готов к переезду",
	NotReadyRelocate:      "не готов к переезду",
	PreferredTimezone:     "часовой пояс",
	Issued:                "Выдан",
	vocabulary: map[string]string{
		"full_time":  "полная занятость",
		"part_time":  "частичная занятость",
		"contract":   "контракт",
		"internship": "стажировка",
		"freelance":  "фриланс",
		"office":     "офис",
		"remote":     "удалённо",
		"hybrid":     "гибрид",
	},
}

// For returns the labels of loc, falling back to English.
func For(loc Locale) Labels {
	if loc == RU {
		return russian
	}
	return english
}

// Term translates a known vocabulary value (employment type, work format).
// Unknown values are returned trimmed and unchanged.
func (l Labels) Term(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.ReplaceAll(key, "-", "_")
	if t, ok := l.vocabulary[key]; ok {
		return t
	}
	return strings.TrimSpace(value)
}

// Terms translates every non-blank value, keeping input order.
func (l Labels) Terms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, l.Term(v))
	}
	return out
}

// YesNo renders a boolean answer.
func (l Labels) YesNo(v bool) string {
	if v {
		return l.Yes
	}
	return l.No
}

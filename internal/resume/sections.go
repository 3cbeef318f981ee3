package resume

import (
	"strings"

	"cvrender/internal/content"
)

// Section 是可以独立开关、独立判空的简历分区。取值集合是封闭的。
type Section string

const (
	SectionSummary               Section = "summary"
	SectionContacts              Section = "contacts"
	SectionExperience            Section = "experience"
	SectionProjects              Section = "projects"
	SectionTechSkills            Section = "techSkills"
	SectionSoftSkills            Section = "softSkills"
	SectionEducation             Section = "education"
	SectionLanguages             Section = "languages"
	SectionEmploymentPreferences Section = "employmentPreferences"
	SectionCertifications        Section = "certifications"
	SectionActivities            Section = "activities"
	SectionPhoto                 Section = "photo"
)

var allSections = []Section{
	SectionSummary,
	SectionContacts,
	SectionExperience,
	SectionProjects,
	SectionTechSkills,
	SectionSoftSkills,
	SectionEducation,
	SectionLanguages,
	SectionEmploymentPreferences,
	SectionCertifications,
	SectionActivities,
	SectionPhoto,
}

// AllSections returns every section key in canonical order.
func AllSections() []Section {
	out := make([]Section, len(allSections))
	copy(out, allSections)
	return out
}

// Valid reports whether s belongs to the enumeration.
func (s Section) Valid() bool {
	for _, known := range allSections {
		if s == known {
			return true
		}
	}
	return false
}

// Visible 读取用户的显示开关；缺省（未设置）视为可见，只有显式 false 才隐藏。
func Visible(r Resume, s Section) bool {
	v, ok := r.SectionsVisibility[s]
	if !ok {
		return true
	}
	return v
}

// Filled reports whether section s has any content worth rendering.
func Filled(r Resume, s Section) bool {
	switch s {
	case SectionSummary:
		return content.HasText(r.Summary)
	case SectionContacts:
		return len(ContactEntries(r.Contacts)) > 0
	case SectionExperience:
		return len(FilledExperience(r.Experience)) > 0
	case SectionProjects:
		return len(FilledProjects(r.Projects)) > 0
	case SectionTechSkills:
		return r.TechSkills.Filled()
	case SectionSoftSkills:
		return r.SoftSkills.Filled()
	case SectionEducation:
		return len(FilledEducation(r.Education)) > 0
	case SectionLanguages:
		return len(FilledLanguages(r.Languages)) > 0
	case SectionEmploymentPreferences:
		return r.EmploymentPreferences.Filled()
	case SectionCertifications:
		return len(FilledCertifications(r.Certifications)) > 0
	case SectionActivities:
		return len(FilledActivities(r.Activities)) > 0
	case SectionPhoto:
		return r.IncludePhoto && isEmbeddedImage(r.Photo)
	default:
		return false
	}
}

// Shows 是模板输出分区前必须通过的双重校验：显示开关 + 内容非空。
func Shows(r Resume, s Section) bool {
	return Visible(r, s) && Filled(r, s)
}

// ShowPhoto 等价于 Shows(r, SectionPhoto)。
// includePhoto=false 或 sectionsVisibility.photo=false 任意一个都会隐藏照片。
func (r Resume) ShowPhoto() bool {
	return Shows(r, SectionPhoto)
}

func isEmbeddedImage(photo string) bool {
	photo = strings.TrimSpace(photo)
	return strings.HasPrefix(strings.ToLower(photo), "data:image/") && strings.Contains(photo, ",")
}

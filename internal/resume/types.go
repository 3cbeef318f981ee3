package resume

// Resume 是存储在 Content(JSONB) 中、由所有模板共享的规范化简历数据。
// 渲染层只读取它，不做任何修改。
type Resume struct {
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	Patronymic string `json:"patronymic"`
	Position   string `json:"position"`

	Contacts Contacts `json:"contacts"`
	Summary  string   `json:"summary"`

	Experience            []Experience          `json:"experience"`
	Projects              []Project             `json:"projects"`
	TechSkills            Skills                `json:"techSkills"`
	SoftSkills            Skills                `json:"softSkills"`
	Education             []Education           `json:"education"`
	Languages             []Language            `json:"languages"`
	EmploymentPreferences EmploymentPreferences `json:"employmentPreferences"`
	Certifications        []Certification       `json:"certifications"`
	Activities            []Activity            `json:"activities"`

	TemplateKey        string           `json:"templateKey"`
	AccentColor        string           `json:"accentColor"`
	IncludePhoto       bool             `json:"includePhoto"`
	Photo              string           `json:"photo,omitempty"`
	SectionsVisibility map[Section]bool `json:"sectionsVisibility"`
}

// Contacts 中的社交链接保存用户原始输入，展示前必须经过 links 包规范化。
type Contacts struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Telegram string `json:"telegram,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Stack       string `json:"stack"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// Skills keeps tags in the order the user entered them.
type Skills struct {
	Tags []string `json:"tags"`
	Note string   `json:"note"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type Language struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// EmploymentPreferences.Relocation is nil when the user never answered.
type EmploymentPreferences struct {
	EmploymentType    []string `json:"employmentType"`
	WorkFormat        []string `json:"workFormat"`
	Relocation        *bool    `json:"relocation,omitempty"`
	Timezone          string   `json:"timezone"`
	WorkAuthorization string   `json:"workAuthorization"`
}

type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
	Link   string `json:"link"`
}

type Activity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

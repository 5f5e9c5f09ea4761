package types

type NavbarData struct {
	IsAuthenticated bool
	IsAdmin         bool
	UserID          string
	UserEmail       string
	UserName        string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Notice string
	Error  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type HomePageData struct {
	BasePageData
	TopEntries []*LeaderboardEntry
}

type LoginPageData struct {
	BasePageData
	Message string
	Email   string
}

type RegisterPageData struct {
	BasePageData
	GivenName   string
	FamilyName  string
	Email       string
	FieldErrors map[string]string
}

type ConfirmRegisterPageData struct {
	BasePageData
	Email   string
	Message string
}

type DashboardPageData struct {
	BasePageData
	Resumes       []*Resume
	Stats         ResumeStats
	MaxUploadMB   int
	AdminRequest  *AdminRequest
	ShowAdminLink bool
}

type AdminTab struct {
	Key    string
	Label  string
	Count  int
	Active bool
}

type AdminPageData struct {
	BasePageData
	Tab           string
	Tabs          []AdminTab
	Stats         ResumeStats
	Resumes       []*ResumeWithOwner
	AdminRequests []*AdminRequestWithUser
	Statuses      []ResumeStatus
	MinScore      int
	MaxScore      int
}

type LeaderboardPageData struct {
	BasePageData
	Entries []*LeaderboardEntry
}

type ProfilePageData struct {
	BasePageData
	User          *User
	AdminRequests []*AdminRequest
	CanRequest    bool
}

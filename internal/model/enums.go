package model

// Category is the interview track a question set is generated for.
type Category string

const (
	CategoryTechnical    Category = "TECHNICAL"
	CategoryCoding       Category = "CODING"
	CategorySystemDesign Category = "SYSTEM_DESIGN"
	CategoryAptitude     Category = "APTITUDE"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryTechnical, CategoryCoding, CategorySystemDesign, CategoryAptitude}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Difficulty of a generated question set.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyExpert       Difficulty = "EXPERT"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyExpert:
		return true
	}
	return false
}

// UserRole is the account type of a profile.
type UserRole string

const (
	RoleGuest     UserRole = "GUEST"
	RoleCandidate UserRole = "CANDIDATE"
	RoleRecruiter UserRole = "RECRUITER"
)

// SupportedRoles are the job roles offered in the practice configurator.
var SupportedRoles = []string{
	"Software Engineer", "Frontend Developer", "Backend Developer", "Full Stack Developer",
	"Mobile App Developer", "Data Analyst", "Data Scientist", "Machine Learning Engineer",
	"DevOps Engineer", "Cloud Engineer", "QA Engineer", "Automation Test Engineer",
	"UI/UX Designer", "Cybersecurity Engineer", "System Administrator", "Product Manager", "Project Manager",
}

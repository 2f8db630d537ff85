package constants

// Account types stored on User; resolved once at registration.
const (
	AccountCustomer  = "customer"
	AccountCraftsman = "craftsman"
)

// Price types for a service.
const (
	PriceHourly = "hourly"
	PriceFixed  = "fixed"
)

// Service lifecycle statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// ServiceCategories are the trade categories a craftsman can list under.
var ServiceCategories = []string{
	"plumbing",
	"electrical",
	"ac_technician",
	"carpentry",
	"tiling",
	"painting",
	"furniture_maker",
	"fumigation",
	"dstv_technician",
	"gas_appliance",
	"pop_worker",
	"cleaning",
	"aluminium_worker",
	"welding",
	"roofing",
	"solar_power",
	"masonry",
	"glass_partitioning",
	"bricklayer",
	"foreman",
	"landscaping",
	"appliance_repair",
	"hvac",
	"security_installation",
	"generator_technician",
	"interior_design",
	"flooring",
	"metal_fabrication",
	"waterproofing",
	"pest_control",
	"scaffolding",
	"site_supervisor",
	"other",
}

// AvailabilityClasses for a service.
var AvailabilityClasses = []string{"immediate", "24_hours", "48_hours", "scheduled"}

// JobSizes for a service.
var JobSizes = []string{"small", "medium", "large", "project"}

// ServiceFeatures are the feature tags a service can carry.
var ServiceFeatures = []string{
	"emergency",
	"warranty",
	"licensed",
	"insured",
	"free_estimate",
	"senior_discount",
}

// ExperienceBuckets for a craftsman profile.
var ExperienceBuckets = []string{"0-1", "1-3", "3-5", "5+"}

// IsServiceCategory reports whether s is a known trade category.
func IsServiceCategory(s string) bool { return contains(ServiceCategories, s) }

// IsAvailability reports whether s is a known availability class.
func IsAvailability(s string) bool { return contains(AvailabilityClasses, s) }

// IsJobSize reports whether s is a known job size.
func IsJobSize(s string) bool { return contains(JobSizes, s) }

// IsServiceFeature reports whether s is a known feature tag.
func IsServiceFeature(s string) bool { return contains(ServiceFeatures, s) }

// IsExperienceBucket reports whether s is a known experience bucket.
func IsExperienceBucket(s string) bool { return contains(ExperienceBuckets, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

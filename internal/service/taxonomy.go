package service

import "pyqbank/internal/model"

// DefaultTaxonomy is the fixed subject/topic tree used to bootstrap an empty
// deployment. Admins edit it afterwards through the subject collection.
func DefaultTaxonomy() []*model.Subject {
	return []*model.Subject{
		{
			Name:         "Polity",
			Code:         "POL",
			Description:  "Indian Polity and Governance",
			DisplayOrder: 1,
			Topics: []model.Topic{
				{Name: "Constitution", Code: "CONST", DisplayOrder: 1, SubTopics: []string{"Preamble", "Fundamental Rights", "DPSP", "Parliament", "Judiciary", "Constitutional Amendments"}},
				{Name: "Federalism", Code: "FED", DisplayOrder: 2, SubTopics: []string{"Centre-State Relations", "Inter-State Relations", "Governor"}},
				{Name: "Parliament", Code: "PARL", DisplayOrder: 3, SubTopics: []string{"Lok Sabha", "Rajya Sabha", "Parliamentary Committees", "Budget Process"}},
				{Name: "Judiciary", Code: "JUD", DisplayOrder: 4, SubTopics: []string{"Supreme Court", "High Courts", "Judicial Review", "PIL"}},
				{Name: "Governance", Code: "GOV", DisplayOrder: 5, SubTopics: []string{"E-Governance", "Transparency", "Right to Information"}},
				{Name: "Elections", Code: "ELEC", DisplayOrder: 6, SubTopics: []string{"Election Commission", "Electoral Reforms", "Political Parties"}},
			},
		},
		{
			Name:         "History",
			Code:         "HIST",
			Description:  "Ancient, Medieval and Modern History",
			DisplayOrder: 2,
			Topics: []model.Topic{
				{Name: "Ancient History", Code: "ANC", DisplayOrder: 1, SubTopics: []string{"Indus Valley Civilization", "Vedic Age", "Mauryan Empire", "Gupta Empire"}},
				{Name: "Medieval History", Code: "MED", DisplayOrder: 2, SubTopics: []string{"Delhi Sultanate", "Mughal Empire", "Vijayanagara Empire"}},
				{Name: "Modern History", Code: "MOD", DisplayOrder: 3, SubTopics: []string{"British Rule", "Freedom Struggle", "Post-Independence India"}},
				{Name: "Art and Culture", Code: "ART", DisplayOrder: 4, SubTopics: []string{"Architecture", "Paintings", "Music and Dance", "Literature"}},
			},
		},
		{
			Name:         "Geography",
			Code:         "GEO",
			Description:  "Physical, Indian and World Geography",
			DisplayOrder: 3,
			Topics: []model.Topic{
				{Name: "Physical Geography", Code: "PHY", DisplayOrder: 1, SubTopics: []string{"Geomorphology", "Climatology", "Oceanography"}},
				{Name: "Indian Geography", Code: "IND", DisplayOrder: 2, SubTopics: []string{"Rivers", "Mountains", "Agriculture", "Minerals"}},
				{Name: "Climate", Code: "CLIM", DisplayOrder: 3, SubTopics: []string{"Monsoon", "Climate Change", "El Nino"}},
				{Name: "World Geography", Code: "WRLD", DisplayOrder: 4, SubTopics: []string{"Continents", "Major Rivers", "Trade Routes"}},
			},
		},
		{
			Name:         "Economy",
			Code:         "ECO",
			Description:  "Indian Economy and Economic Development",
			DisplayOrder: 4,
			Topics: []model.Topic{
				{Name: "GDP", Code: "GDP", DisplayOrder: 1, SubTopics: []string{"Economic Growth", "National Income", "Per Capita Income"}},
				{Name: "Banking", Code: "BANK", DisplayOrder: 2, SubTopics: []string{"RBI", "Monetary Policy", "NPAs", "Financial Inclusion"}},
				{Name: "Fiscal Policy", Code: "FISC", DisplayOrder: 3, SubTopics: []string{"Budget", "Taxation", "Public Debt"}},
				{Name: "External Sector", Code: "EXT", DisplayOrder: 4, SubTopics: []string{"Balance of Payments", "Trade Policy", "FDI"}},
			},
		},
		{
			Name:         "Environment",
			Code:         "ENV",
			Description:  "Environment, Ecology and Biodiversity",
			DisplayOrder: 5,
			Topics: []model.Topic{
				{Name: "Ecology", Code: "ECOL", DisplayOrder: 1, SubTopics: []string{"Ecosystems", "Food Chains", "Biogeochemical Cycles"}},
				{Name: "Biodiversity", Code: "BIO", DisplayOrder: 2, SubTopics: []string{"National Parks", "Wildlife Sanctuaries", "Endangered Species"}},
				{Name: "Climate Change", Code: "CC", DisplayOrder: 3, SubTopics: []string{"Global Warming", "International Agreements", "Carbon Markets"}},
				{Name: "Pollution", Code: "POLL", DisplayOrder: 4, SubTopics: []string{"Air Pollution", "Water Pollution", "Waste Management"}},
			},
		},
		{
			Name:         "Science and Technology",
			Code:         "SCI",
			Description:  "General Science and Current Technology",
			DisplayOrder: 6,
			Topics: []model.Topic{
				{Name: "Space Technology", Code: "SPACE", DisplayOrder: 1, SubTopics: []string{"ISRO Missions", "Satellites", "Launch Vehicles"}},
				{Name: "Biotechnology", Code: "BIOT", DisplayOrder: 2, SubTopics: []string{"Genetic Engineering", "Vaccines", "GM Crops"}},
				{Name: "Information Technology", Code: "IT", DisplayOrder: 3, SubTopics: []string{"Artificial Intelligence", "Blockchain", "Cybersecurity"}},
				{Name: "Defence Technology", Code: "DEF", DisplayOrder: 4, SubTopics: []string{"Missiles", "Aircraft", "Naval Systems"}},
			},
		},
	}
}

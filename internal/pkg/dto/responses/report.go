package responses

// TestReport is the decoded reportXml export for a finished test.
type TestReport struct {
	Accession              string `xml:"accession"`
	Age                    string `xml:"age"`
	Sex                    string `xml:"sex"`
	Ethnicity              string `xml:"ethnicity"`
	PatientName            string `xml:"patientName"`
	DateOfBirth            string `xml:"dateOfBirth"`
	SpecimenID             string `xml:"specimenId"`
	SpecimenBlock          string `xml:"specimentBlock"`
	SpecimenCollectionDate string `xml:"specimenCollectionDate"`
	SpecimenDiagnosis      string `xml:"specimenDiagnosis"`
	PrimaryTumorSite       string `xml:"primaryTumorSite"`
	SpecimenType           string `xml:"specimenType"`
	SpecimenDissection     string `xml:"specimenDissection"`

	OrderingPhysicianName         string `xml:"orderingPhysicianName"`
	OrderingPhysicianClient       string `xml:"orderingPhysicianClient"`
	OrderingPhysicianFacilityName string `xml:"orderingPhysicianFacilityName"`
	PathologistName               string `xml:"pathologistName"`

	Interpretation string          `xml:"interpretation"`
	Variants       []ReportVariant `xml:"variant"`
}

type ReportVariant struct {
	Chromosome     string `xml:"chromosome"`
	Position       int64  `xml:"position"`
	Reference      string `xml:"reference"`
	Alternate      string `xml:"alternate"`
	Genotype       string `xml:"genotype"`
	Assessment     string `xml:"assessment"`
	Phenotype      string `xml:"phenotype"`
	AlleleFraction string `xml:"allelefraction"`
	Gene           string `xml:"gene"`
}

package requests

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"

	"qci-client/internal/pkg/constvars"
	"qci-client/internal/pkg/exceptions"
	"qci-client/internal/pkg/utils"
)

// DataPackage is one clinical entry formatted for the QCI API. Callers build
// it through NewDataPackage and must not mutate it afterwards; the upload
// clients only ever read from it.
type DataPackage struct {
	AccessionID        string `validate:"required,accession"`
	TestProductProfile string `validate:"required"`
	VCF                string `validate:"required,vcf"`

	PatientName            string
	DateOfBirth            string `validate:"omitempty,datetime=2006-01-02"`
	Sex                    string `validate:"omitempty,oneof=male female unknown"`
	Ethnicity              string
	SpecimenID             string `validate:"required"`
	SpecimenBlock          string
	SpecimenCollectionDate string `validate:"omitempty,datetime=2006-01-02"`
	SpecimenDiagnosis      string
	PrimaryTumorSite       string
	SpecimenType           string
	SpecimenDissection     string

	OrderingPhysicianName         string
	OrderingPhysicianClient       string
	OrderingPhysicianFacilityName string
	PathologistName               string
}

func NewDataPackage(fields DataPackage) (*DataPackage, error) {
	if err := utils.ValidateStruct(fields); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	return &fields, nil
}

// dataPackageMetadata mirrors the vendor's metadata XML element names.
type dataPackageMetadata struct {
	XMLName xml.Name `xml:"dataPackage"`

	Accession          string `xml:"accession"`
	TestProductProfile string `xml:"testProductProfile"`

	PatientName            string `xml:"patientName,omitempty"`
	DateOfBirth            string `xml:"dateOfBirth,omitempty"`
	Sex                    string `xml:"sex,omitempty"`
	Ethnicity              string `xml:"ethnicity,omitempty"`
	SpecimenID             string `xml:"specimenId"`
	SpecimenBlock          string `xml:"specimenBlock,omitempty"`
	SpecimenCollectionDate string `xml:"specimenCollectionDate,omitempty"`
	SpecimenDiagnosis      string `xml:"specimenDiagnosis,omitempty"`
	PrimaryTumorSite       string `xml:"primaryTumorSite,omitempty"`
	SpecimenType           string `xml:"specimenType,omitempty"`
	SpecimenDissection     string `xml:"specimenDissection,omitempty"`

	OrderingPhysicianName         string `xml:"orderingPhysicianName,omitempty"`
	OrderingPhysicianClient       string `xml:"orderingPhysicianClient,omitempty"`
	OrderingPhysicianFacilityName string `xml:"orderingPhysicianFacilityName,omitempty"`
	PathologistName               string `xml:"pathologistName,omitempty"`
}

func (dp *DataPackage) MetadataXML() ([]byte, error) {
	metadata := dataPackageMetadata{
		Accession:                     dp.AccessionID,
		TestProductProfile:            dp.TestProductProfile,
		PatientName:                   dp.PatientName,
		DateOfBirth:                   dp.DateOfBirth,
		Sex:                           dp.Sex,
		Ethnicity:                     dp.Ethnicity,
		SpecimenID:                    dp.SpecimenID,
		SpecimenBlock:                 dp.SpecimenBlock,
		SpecimenCollectionDate:        dp.SpecimenCollectionDate,
		SpecimenDiagnosis:             dp.SpecimenDiagnosis,
		PrimaryTumorSite:              dp.PrimaryTumorSite,
		SpecimenType:                  dp.SpecimenType,
		SpecimenDissection:            dp.SpecimenDissection,
		OrderingPhysicianName:         dp.OrderingPhysicianName,
		OrderingPhysicianClient:       dp.OrderingPhysicianClient,
		OrderingPhysicianFacilityName: dp.OrderingPhysicianFacilityName,
		PathologistName:               dp.PathologistName,
	}

	body, err := xml.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, exceptions.ErrCannotMarshalXML(err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Archive renders the zip the vendor upload endpoint expects: the metadata
// XML plus the sample VCF, named after the accession.
func (dp *DataPackage) Archive() ([]byte, error) {
	metadataXML, err := dp.MetadataXML()
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	archive := zip.NewWriter(buf)

	metadataFile, err := archive.Create(constvars.DataPackageMetadataFileName)
	if err != nil {
		return nil, exceptions.ErrBuildArchive(err)
	}
	if _, err := metadataFile.Write(metadataXML); err != nil {
		return nil, exceptions.ErrBuildArchive(err)
	}

	vcfFile, err := archive.Create(fmt.Sprintf("%s.vcf", dp.AccessionID))
	if err != nil {
		return nil, exceptions.ErrBuildArchive(err)
	}
	if _, err := vcfFile.Write([]byte(dp.VCF)); err != nil {
		return nil, exceptions.ErrBuildArchive(err)
	}

	if err := archive.Close(); err != nil {
		return nil, exceptions.ErrBuildArchive(err)
	}
	return buf.Bytes(), nil
}

// ArchiveFileName is the name the package travels under in the multipart
// form, mirroring the vendor's QCI_DP_ prefix convention.
func (dp *DataPackage) ArchiveFileName() string {
	return fmt.Sprintf("%s%s.zip", constvars.DataPackageArchivePrefix, dp.AccessionID)
}

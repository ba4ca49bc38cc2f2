package dataprocessing

import (
	"fmt"

	"evagobi/pkg/contracts/domain"
)

// DatasetTable encodes one raw dataset as a table keyed by its name
func DatasetTable(ds *domain.Datasets, name string) (*domain.Table, error) {
	switch name {
	case domain.DatasetGoogleAnalytics:
		return ToTable(name, ds.GoogleAnalytics)
	case domain.DatasetGoogleAds:
		return ToTable(name, ds.GoogleAds)
	case domain.DatasetSEOKeywords:
		return ToTable(name, ds.SEOKeywords)
	case domain.DatasetSocialMedia:
		return ToTable(name, ds.SocialMedia)
	case domain.DatasetCompetitorAnalysis:
		return ToTable(name, ds.CompetitorAnalysis)
	case domain.DatasetConversionFunnel:
		return ToTable(name, ds.ConversionFunnel)
	case domain.DatasetDevicePerformance:
		return ToTable(name, ds.DevicePerformance)
	case domain.DatasetCampaignPerformance:
		return ToTable(name, ds.CampaignPerformance)
	case domain.DatasetGeographicPerformance:
		return ToTable(name, ds.GeographicPerformance)
	case domain.DatasetTimeSeries:
		return ToTable(name, ds.TimeSeries)
	case domain.DatasetPartnerPerformance:
		return ToTable(name, ds.PartnerPerformance)
	case domain.DatasetAcquisitionImpact:
		return ToTable(name, ds.AcquisitionImpact)
	}
	return nil, fmt.Errorf("unknown dataset %q", name)
}

// readDataset decodes the file at path into the named dataset's slot
func readDataset(ds *domain.Datasets, name, path string) (int, error) {
	slot, ok := ds.Slot(name)
	if !ok {
		return 0, fmt.Errorf("unknown dataset %q", name)
	}

	switch dst := slot.(type) {
	case *[]domain.GoogleAnalyticsRow:
		return readInto(path, dst)
	case *[]domain.GoogleAdsRow:
		return readInto(path, dst)
	case *[]domain.SEOKeywordRow:
		return readInto(path, dst)
	case *[]domain.SocialMediaRow:
		return readInto(path, dst)
	case *[]domain.CompetitorRow:
		return readInto(path, dst)
	case *[]domain.FunnelRow:
		return readInto(path, dst)
	case *[]domain.DeviceRow:
		return readInto(path, dst)
	case *[]domain.CampaignRow:
		return readInto(path, dst)
	case *[]domain.GeoRow:
		return readInto(path, dst)
	case *[]domain.TimeSeriesRow:
		return readInto(path, dst)
	case *[]domain.PartnerRow:
		return readInto(path, dst)
	case *[]domain.AcquisitionImpactRow:
		return readInto(path, dst)
	}
	return 0, fmt.Errorf("dataset %q has no row codec", name)
}

func readInto[T any](path string, dst *[]T) (int, error) {
	rows, err := ReadRowsFile[T](path)
	if err != nil {
		return 0, err
	}
	*dst = rows
	return len(rows), nil
}

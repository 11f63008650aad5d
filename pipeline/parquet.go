package pipeline

import (
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type sampleParquetRow struct {
	TSUTCISO        string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ElapsedS        float64 `parquet:"name=elapsed_s, type=DOUBLE"`
	Latitude        float64 `parquet:"name=latitude, type=DOUBLE"`
	Longitude       float64 `parquet:"name=longitude, type=DOUBLE"`
	AltitudeM       float64 `parquet:"name=altitude_m, type=DOUBLE"`
	PowerW          float64 `parquet:"name=power_w, type=DOUBLE"`
	HRBPM           float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	CadenceRPM      float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	TemperatureC    float64 `parquet:"name=temperature_c, type=DOUBLE"`
	SpeedKMH        float64 `parquet:"name=speed_kmh, type=DOUBLE"`
	VerticalSpeedMS float64 `parquet:"name=vertical_speed_ms, type=DOUBLE"`
	VerticalSpeedMH float64 `parquet:"name=vertical_speed_mh, type=DOUBLE"`
	SampleIndex     int64   `parquet:"name=sample_index, type=INT64"`
}

func writeSamplesParquet(path string, rows []SampleRow) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(sampleParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := sampleParquetRow{
			TSUTCISO:        r.TSUTCISO,
			ElapsedS:        r.ElapsedS,
			Latitude:        r.Latitude,
			Longitude:       r.Longitude,
			AltitudeM:       valueOrNaN(r.AltitudeM),
			PowerW:          valueOrNaN(r.PowerW),
			HRBPM:           valueOrNaN(r.HRBPM),
			CadenceRPM:      valueOrNaN(r.CadenceRPM),
			TemperatureC:    valueOrNaN(r.TemperatureC),
			SpeedKMH:        valueOrNaN(r.SpeedKMH),
			VerticalSpeedMS: valueOrNaN(r.VerticalSpeedMS),
			VerticalSpeedMH: valueOrNaN(r.VerticalSpeedMH),
			SampleIndex:     int64(r.SampleIndex),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return err
	}
	return fw.Close()
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

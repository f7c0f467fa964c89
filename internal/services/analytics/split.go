package analytics

import (
	"SpyReg/internal/domain/models"
	"SpyReg/pkg/apperr"
)

// Split cuts the most recent testSize rows as Test and the trainSize rows
// immediately before them as Train. Both are copies.
func Split(t *models.Table, trainSize, testSize int) (*models.Split, error) {
	if trainSize <= 0 || testSize <= 0 {
		return nil, apperr.DataErrorf("window sizes must be positive").
			WithParam("train_size", trainSize).
			WithParam("test_size", testSize)
	}
	rows := t.Len()
	need := trainSize + testSize
	if rows < need {
		return nil, apperr.DataErrorf("feature table too short for the train and test windows").
			WithParam("rows", rows).
			WithParam("needed", need).
			WithError(models.ErrInsufficientHistory)
	}

	testLo := rows - testSize
	trainLo := testLo - trainSize
	return &models.Split{
		Train:   t.Slice(trainLo, testLo),
		Test:    t.Slice(testLo, rows),
		TrainLo: trainLo,
		TrainHi: testLo,
		TestLo:  testLo,
		TestHi:  rows,
	}, nil
}

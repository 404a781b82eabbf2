package tally_test

import (
	"context"
	"errors"
	"github.com/denismitr/tally"
	"github.com/stretchr/testify/suite"
	"testing"
)

func TestTx_Rollback(t *testing.T) {
	suite.Run(t, &rollbackTestSuite{})
}

type rollbackTestSuite struct {
	suite.Suite
	path string
	sv   *tally.Survey
}

func (rts *rollbackTestSuite) SetupTest() {
	rts.path = tempPath(rts.T(), "rollback.json")
	rts.sv = openSurvey(rts.T(), rts.path, nil)
	seedSurvey(rts.T(), rts.sv, seedMeasurements[:3])
}

func (rts *rollbackTestSuite) TestInsertRollback() {
	err := rts.sv.Update(context.Background(), func(tx *tally.Tx) error {
		if _, err := tx.Insert(tally.Measurement{Diameter: 5, Length: 20, Category: tally.Other}); err != nil {
			rts.T().Fatal(err)
		}

		if _, err := tx.Insert(tally.Measurement{Diameter: 6, Length: 21, Category: tally.Other}); err != nil {
			rts.T().Fatal(err)
		}

		rts.Require().Equal(5, tx.Count())

		return errors.New("should roll back")
	})

	rts.Require().Error(err)

	// expect rolled back records not to be persisted
	rs, err := rts.sv.Load(context.Background())
	rts.Require().NoError(err)
	rts.Require().Len(rs, 3)

	for _, r := range rs {
		rts.NotEqual(tally.Other, r.Category)
	}
}

func (rts *rollbackTestSuite) TestRemoveRollback() {
	err := rts.sv.Update(context.Background(), func(tx *tally.Tx) error {
		if _, err := tx.RemoveAt(0); err != nil {
			rts.T().Fatal(err)
		}

		_, err := tx.RemoveAt(7)
		return err
	})

	rts.Require().Error(err)
	rts.True(errors.Is(err, tally.ErrInvalidIndex))

	n, err := rts.sv.Count(context.Background())
	rts.Require().NoError(err)
	rts.Equal(3, n)
}

func (rts *rollbackTestSuite) TestInvalidMeasurementRollsBackWholeTx() {
	err := rts.sv.Update(context.Background(), func(tx *tally.Tx) error {
		if _, err := tx.Insert(tally.Measurement{Diameter: 5, Length: 20, Category: tally.Other}); err != nil {
			rts.T().Fatal(err)
		}

		_, err := tx.Insert(tally.Measurement{Diameter: 50, Length: 20, Category: tally.Other})
		return err
	})

	rts.Require().Error(err)
	rts.True(errors.Is(err, tally.ErrMeasurementOutOfRange))

	n, err := rts.sv.Count(context.Background())
	rts.Require().NoError(err)
	rts.Equal(3, n)
}

func (rts *rollbackTestSuite) TestReadOnlyTx() {
	err := rts.sv.View(context.Background(), func(tx *tally.Tx) error {
		if _, err := tx.Insert(seedMeasurements[0]); !errors.Is(err, tally.ErrTxIsReadOnly) {
			rts.T().Fatalf("expected read only error, got %v", err)
		}

		if _, err := tx.RemoveAt(0); !errors.Is(err, tally.ErrTxIsReadOnly) {
			rts.T().Fatalf("expected read only error, got %v", err)
		}

		_, err := tx.Replace(nil)
		return err
	})

	rts.Require().Error(err)
	rts.True(errors.Is(err, tally.ErrTxIsReadOnly))
}

func (rts *rollbackTestSuite) TestSnapshotIsIsolated() {
	err := rts.sv.View(context.Background(), func(tx *tally.Tx) error {
		rs := tx.Records()
		rs[0].Category = tally.Other

		first, err := tx.Get(0)
		rts.Require().NoError(err)
		rts.Equal(tally.Latin, first.Category)

		_, err = tx.Get(3)
		rts.True(errors.Is(err, tally.ErrInvalidIndex))

		return nil
	})

	rts.Require().NoError(err)
}

package jobs

import "testing"

func TestRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"ingest with seasons", Request{Type: JobTypeIngest, Seasons: []string{"2023", "2024"}}, false},
		{"ingest with single season", Request{Type: JobTypeIngest, Season: "2024"}, false},
		{"ingest without seasons", Request{Type: JobTypeIngest}, true},
		{"train", Request{Type: JobTypeTrain, Model: "logistic", Season: "2024"}, false},
		{"train missing model", Request{Type: JobTypeTrain, Season: "2024"}, true},
		{"train missing season", Request{Type: JobTypeTrain, Model: "logistic"}, true},
		{"backtest", Request{Type: JobTypeBacktest, Model: "forest", Season: "2024", TrainFraction: 0.75}, false},
		{"backtest default fraction", Request{Type: JobTypeBacktest, Model: "forest", Season: "2024"}, false},
		{"backtest fraction too high", Request{Type: JobTypeBacktest, Model: "forest", Season: "2024", TrainFraction: 1.0}, true},
		{"unknown type", Request{Type: "reticulate"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

/*
Copyright (c) The OpenNIC Project and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package timestamp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Config
		want    Config
		wantErr error
	}{
		{
			name: "off",
			in:   Config{TXType: TXOff, RXFilter: RXFilterNone},
			want: Config{TXType: TXOff, RXFilter: RXFilterNone},
		},
		{
			name: "tx on rx all",
			in:   Config{TXType: TXOn, RXFilter: RXFilterAll},
			want: Config{TXType: TXOn, RXFilter: RXFilterAll},
		},
		{
			name: "l4 filter upgraded to all",
			in:   Config{TXType: TXOn, RXFilter: RXFilterPTPv2L4Event},
			want: Config{TXType: TXOn, RXFilter: RXFilterAll},
		},
		{
			name: "l2 filter upgraded to all",
			in:   Config{TXType: TXOff, RXFilter: RXFilterPTPv2L2Event},
			want: Config{TXType: TXOff, RXFilter: RXFilterAll},
		},
		{
			name: "event filter upgraded to all",
			in:   Config{TXType: TXOff, RXFilter: RXFilterPTPv2Event},
			want: Config{TXType: TXOff, RXFilter: RXFilterAll},
		},
		{
			name:    "one-step rejected",
			in:      Config{TXType: TXOneStepSync},
			wantErr: ErrUnsupportedTXType,
		},
		{
			name:    "garbage tx rejected",
			in:      Config{TXType: TXType(42)},
			wantErr: ErrUnsupportedTXType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStrings(t *testing.T) {
	require.Equal(t, "on", TXOn.String())
	require.Equal(t, "onestep-sync", TXOneStepSync.String())
	require.Equal(t, "unknown (9)", TXType(9).String())
	require.Equal(t, "ptpv2-event", RXFilterPTPv2Event.String())
	require.Equal(t, "unknown (99)", RXFilter(99).String())
}

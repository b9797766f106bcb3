// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package calendar

// CombineDateTime implements the arithmetic matrix's "PlainDate (adds time) ->
// PlainDateTime" entry (spec.md §4.4): a bare PlainTime added to a PlainDate combines
// into one PlainDateTime rather than going through duration arithmetic.
func CombineDateTime(d PlainDate, t PlainTime) PlainDateTime {
	return PlainDateTime{Date: d, Time: t}
}

// AddTimeToTimeOfDay applies dur's time components to t and reports whether the result
// must be promoted to a PlainDateTime (the arithmetic matrix's PlainTime + Duration
// footnote: "result is PlainTime unless the sum crosses day boundaries, then
// PlainDateTime (today as date)"). The caller supplies today's date for the promoted
// case; calendar itself has no notion of "today" without a Clock.
func AddTimeToTimeOfDay(t PlainTime, dur Duration, today PlainDate) (PlainTime, *PlainDateTime) {
	result, overflow := t.AddToTime(dur)
	if overflow == 0 {
		return result, nil
	}
	promotedDate := today.addDays(overflow)
	dt := PlainDateTime{Date: promotedDate, Time: result}
	return PlainTime{}, &dt
}

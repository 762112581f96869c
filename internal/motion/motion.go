package motion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Command types understood by the simulator.
const (
	// TypeRate holds attitude rates (deg/s) and body accelerations (m/s^2)
	// for the duration of the command.
	TypeRate = 1
	// TypeTarget ramps attitude (deg) and body velocity (m/s) linearly to
	// the given absolute targets over the duration of the command.
	TypeTarget = 2
)

// Command is one row of a motion definition.
type Command struct {
	Type       int
	Yaw        float64 // deg (TypeTarget) or deg/s (TypeRate)
	Pitch      float64
	Roll       float64
	VX         float64 // m/s (TypeTarget) or m/s^2 (TypeRate), body frame
	VY         float64
	VZ         float64
	Duration   float64 // s
	GPSVisible bool
}

// Definition is a complete motion definition: the initial state of the
// vehicle plus the command sequence that drives it.
type Definition struct {
	LatDeg float64 // initial latitude, deg
	LonDeg float64 // initial longitude, deg
	AltM   float64 // initial altitude, m

	Vel0 [3]float64 // initial body velocity (vx, vy, vz), m/s
	Att0 [3]float64 // initial attitude (yaw, pitch, roll), deg

	Commands []Command
}

// Duration returns the total duration of the command sequence in seconds.
func (d *Definition) Duration() float64 {
	var total float64
	for _, c := range d.Commands {
		total += c.Duration
	}
	return total
}

// Validate checks the command sequence. Load validates on the way in;
// callers constructing definitions directly can check them here.
func (d *Definition) Validate() error {
	if len(d.Commands) == 0 {
		return fmt.Errorf("motion: no commands")
	}
	for i, c := range d.Commands {
		if err := c.validate(); err != nil {
			return fmt.Errorf("motion: command %d: %w", i+1, err)
		}
	}
	return nil
}

func (c Command) validate() error {
	if c.Type != TypeRate && c.Type != TypeTarget {
		return fmt.Errorf("unknown command type %d", c.Type)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("command duration must be positive, got %v", c.Duration)
	}
	return nil
}

// Load reads a motion definition CSV file. The file holds one
// initial-condition row (lat deg, lon deg, alt m, vx vy vz m/s, yaw pitch
// roll deg) followed by command rows (type, yaw, pitch, roll, vx, vy, vz,
// duration s, gps visibility). Rows whose first field is not numeric are
// treated as column headers and skipped.
func Load(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("motion: open %s: %w", path, err)
	}
	defer f.Close()

	def, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("motion: %s: %w", path, err)
	}
	return def, nil
}

func parse(r io.Reader) (*Definition, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var def *Definition
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) == 0 {
			continue
		}
		if _, err := parseField(record[0]); err != nil {
			// header row
			continue
		}

		fields, err := parseFields(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		if def == nil {
			if len(fields) < 9 {
				return nil, fmt.Errorf("row %d: initial conditions need 9 fields, got %d", line, len(fields))
			}
			def = &Definition{
				LatDeg: fields[0],
				LonDeg: fields[1],
				AltM:   fields[2],
				Vel0:   [3]float64{fields[3], fields[4], fields[5]},
				Att0:   [3]float64{fields[6], fields[7], fields[8]},
			}
			continue
		}

		cmd, err := parseCommand(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		def.Commands = append(def.Commands, cmd)
	}

	if def == nil {
		return nil, fmt.Errorf("no initial-condition row found")
	}
	if len(def.Commands) == 0 {
		return nil, fmt.Errorf("no command rows found")
	}
	return def, nil
}

func parseCommand(fields []float64) (Command, error) {
	if len(fields) != 9 {
		return Command{}, fmt.Errorf("command needs 9 fields, got %d", len(fields))
	}
	if fields[0] != float64(TypeRate) && fields[0] != float64(TypeTarget) {
		return Command{}, fmt.Errorf("unknown command type %v", fields[0])
	}
	if fields[8] != 0 && fields[8] != 1 {
		return Command{}, fmt.Errorf("gps visibility must be 0 or 1, got %v", fields[8])
	}

	cmd := Command{
		Type:       int(fields[0]),
		Yaw:        fields[1],
		Pitch:      fields[2],
		Roll:       fields[3],
		VX:         fields[4],
		VY:         fields[5],
		VZ:         fields[6],
		Duration:   fields[7],
		GPSVisible: fields[8] == 1,
	}
	if err := cmd.validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func parseFields(record []string) ([]float64, error) {
	fields := make([]float64, len(record))
	for i, s := range record {
		v, err := parseField(s)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		fields[i] = v
	}
	return fields, nil
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Save writes the definition in the same CSV shape Load reads.
func (d *Definition) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("motion: create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	rows := [][]string{
		{"ini lat (deg)", "ini lon (deg)", "ini alt (m)", "ini vx (m/s)", "ini vy (m/s)", "ini vz (m/s)", "ini yaw (deg)", "ini pitch (deg)", "ini roll (deg)"},
		{
			ftoa(d.LatDeg), ftoa(d.LonDeg), ftoa(d.AltM),
			ftoa(d.Vel0[0]), ftoa(d.Vel0[1]), ftoa(d.Vel0[2]),
			ftoa(d.Att0[0]), ftoa(d.Att0[1]), ftoa(d.Att0[2]),
		},
		{"command type", "yaw (deg)", "pitch (deg)", "roll (deg)", "vx (m/s)", "vy (m/s)", "vz (m/s)", "duration (s)", "gps visibility"},
	}
	for _, c := range d.Commands {
		vis := "0"
		if c.GPSVisible {
			vis = "1"
		}
		rows = append(rows, []string{
			strconv.Itoa(c.Type),
			ftoa(c.Yaw), ftoa(c.Pitch), ftoa(c.Roll),
			ftoa(c.VX), ftoa(c.VY), ftoa(c.VZ),
			ftoa(c.Duration), vis,
		})
	}

	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("motion: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("motion: close %s: %w", path, err)
	}
	return nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

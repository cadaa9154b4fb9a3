package mem

// Cells implements named single-integer storage. Cells are allocated
// sequentially on first declaration and are never freed; declaring an
// existing name resets its cell in place.
type Cells struct {
	// Limit caps the number of distinct cells; 0 means no limit.
	Limit uint

	addrs  map[string]uint
	names  []string
	values []int64
	fixed  []bool
}

// Size returns how many cells have been allocated.
func (c *Cells) Size() uint { return uint(len(c.values)) }

// Has returns true if name has been declared.
func (c *Cells) Has(name string) bool {
	_, ok := c.addrs[name]
	return ok
}

// Fixed returns true if name is declared and read only.
func (c *Cells) Fixed(name string) bool {
	addr, ok := c.addrs[name]
	return ok && c.fixed[addr]
}

// Reserve checks that all the given names could be declared without
// exceeding Limit; nothing is allocated.
func (c *Cells) Reserve(names ...string) error {
	if c.Limit == 0 {
		return nil
	}
	need := c.Size()
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := c.addrs[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		need++
	}
	if need > c.Limit {
		return LimitError{Need: need, Limit: c.Limit}
	}
	return nil
}

// Declare allocates a zero valued, writable, cell for name, or resets an
// existing one. Fixed cells may not be redeclared. Returns the cell address.
func (c *Cells) Declare(name string) (uint, error) {
	if c.Fixed(name) {
		return 0, NameError{name, "declare", ErrReadOnly}
	}
	return c.declare(name, 0, false)
}

// Fix declares name as a read only cell holding value.
func (c *Cells) Fix(name string, value int64) (uint, error) {
	return c.declare(name, value, true)
}

func (c *Cells) declare(name string, value int64, fixed bool) (uint, error) {
	addr, ok := c.addrs[name]
	if !ok {
		if err := c.Reserve(name); err != nil {
			return 0, err
		}
		if c.addrs == nil {
			c.addrs = make(map[string]uint)
		}
		addr = uint(len(c.values))
		c.addrs[name] = addr
		c.names = append(c.names, name)
		c.values = append(c.values, 0)
		c.fixed = append(c.fixed, false)
	}
	c.values[addr] = value
	c.fixed[addr] = fixed
	return addr, nil
}

// Load returns the value of the named cell.
func (c *Cells) Load(name string) (int64, error) {
	addr, ok := c.addrs[name]
	if !ok {
		return 0, NameError{name, "load", ErrUndeclared}
	}
	return c.values[addr], nil
}

// Stor sets the value of the named cell; fixed cells may not be stored to.
func (c *Cells) Stor(name string, value int64) error {
	addr, ok := c.addrs[name]
	if !ok {
		return NameError{name, "stor", ErrUndeclared}
	}
	if c.fixed[addr] {
		return NameError{name, "stor", ErrReadOnly}
	}
	c.values[addr] = value
	return nil
}

// CellsDump provides data for testing and session dumps.
type CellsDump struct {
	Names  []string
	Values []int64
	Fixed  []bool
}

// Dump returns a copy of all cells in allocation order.
func (c *Cells) Dump() (d CellsDump) {
	d.Names = append([]string(nil), c.names...)
	d.Values = append([]int64(nil), c.values...)
	d.Fixed = append([]bool(nil), c.fixed...)
	return d
}

package at24c08

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type tx struct {
	addr  uint16
	wlen  int
	rlen  int
	block int
}

// fakeEEPROM models the part: reads roll over inside a block, writes roll
// over inside a page.
type fakeEEPROM struct {
	mem  [Size]byte
	txs  []tx
	fail error
}

func (f *fakeEEPROM) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	if addr&^0x3 != Address || len(w) == 0 {
		return errors.New("nack")
	}
	block := int(addr & 0x3)
	f.txs = append(f.txs, tx{addr: addr, wlen: len(w), rlen: len(r), block: block})
	word := int(w[0])
	if r != nil {
		for i := range r {
			r[i] = f.mem[block*blockSize+(word+i)%blockSize]
		}
		return nil
	}
	page := word &^ (PageSize - 1)
	for i, b := range w[1:] {
		f.mem[block*blockSize+page+(word+i)%PageSize] = b
	}
	return nil
}

func newDev(f *fakeEEPROM) (Device, *[]time.Duration) {
	var sleeps []time.Duration
	d := New(f)
	d.Configure(Config{Sleep: func(t time.Duration) { sleeps = append(sleeps, t) }})
	return d, &sleeps
}

func TestReadSplitsOnBlocks(t *testing.T) {
	f := &fakeEEPROM{}
	for i := range f.mem {
		f.mem[i] = byte(i * 7)
	}
	d, _ := newDev(f)

	buf := make([]byte, 300)
	n, err := d.ReadAt(buf, 0xF0)
	if err != nil || n != len(buf) {
		t.Fatalf("ReadAt = %d, %v", n, err)
	}
	if !bytes.Equal(buf, f.mem[0xF0:0xF0+300]) {
		t.Fatal("data mismatch across block boundary")
	}
	// 0xF0..0xFF in block 0, 0x100..0x1FF in block 1, the rest in block 2.
	want := []tx{
		{addr: 0x50, wlen: 1, rlen: 16, block: 0},
		{addr: 0x51, wlen: 1, rlen: 256, block: 1},
		{addr: 0x52, wlen: 1, rlen: 28, block: 2},
	}
	if len(f.txs) != len(want) {
		t.Fatalf("txs = %+v", f.txs)
	}
	for i := range want {
		if f.txs[i] != want[i] {
			t.Fatalf("tx %d = %+v, want %+v", i, f.txs[i], want[i])
		}
	}
}

func TestWriteSplitsOnPages(t *testing.T) {
	f := &fakeEEPROM{}
	d, sleeps := newDev(f)

	data := []byte("00:11:22:33:44:55 mini210 serial")
	off := int64(0x2F5)
	n, err := d.WriteAt(data, off)
	if err != nil || n != len(data) {
		t.Fatalf("WriteAt = %d, %v", n, err)
	}
	if !bytes.Equal(f.mem[off:off+int64(len(data))], data) {
		t.Fatalf("mem = %q", f.mem[off:off+int64(len(data))])
	}
	for _, x := range f.txs {
		if x.wlen-1 > PageSize {
			t.Fatalf("page overrun: %+v", x)
		}
	}
	if len(*sleeps) != len(f.txs) {
		t.Fatalf("%d write cycles for %d pages", len(*sleeps), len(f.txs))
	}
	for _, s := range *sleeps {
		if s != WriteCycle {
			t.Fatalf("sleep %v", s)
		}
	}
}

func TestUnalignedShortWrite(t *testing.T) {
	f := &fakeEEPROM{}
	d, _ := newDev(f)
	if _, err := d.WriteAt([]byte{1, 2, 3, 4}, 0x1E); err != nil {
		t.Fatal(err)
	}
	if len(f.txs) != 2 || f.txs[0].wlen != 3 || f.txs[1].wlen != 3 {
		t.Fatalf("txs = %+v", f.txs)
	}
	if !bytes.Equal(f.mem[0x1E:0x22], []byte{1, 2, 3, 4}) {
		t.Fatalf("mem = %v", f.mem[0x1E:0x22])
	}
}

func TestOutOfRange(t *testing.T) {
	f := &fakeEEPROM{}
	d, _ := newDev(f)
	cases := []struct {
		n   int
		off int64
	}{
		{1, -1},
		{1, Size},
		{2, Size - 1},
		{Size + 1, 0},
	}
	for _, c := range cases {
		if _, err := d.ReadAt(make([]byte, c.n), c.off); err != ErrOutOfRange {
			t.Fatalf("ReadAt(%d, %d) = %v", c.n, c.off, err)
		}
		if _, err := d.WriteAt(make([]byte, c.n), c.off); err != ErrOutOfRange {
			t.Fatalf("WriteAt(%d, %d) = %v", c.n, c.off, err)
		}
	}
	if len(f.txs) != 0 {
		t.Fatalf("bus touched: %+v", f.txs)
	}
	if n, err := d.ReadAt(make([]byte, 4), Size-4); err != nil || n != 4 {
		t.Fatalf("last word: %d, %v", n, err)
	}
}

func TestBusErrorStopsTransfer(t *testing.T) {
	boom := errors.New("arbitration lost")
	f := &fakeEEPROM{fail: boom}
	d, sleeps := newDev(f)
	n, err := d.WriteAt(make([]byte, 40), 0)
	if err != boom || n != 0 {
		t.Fatalf("WriteAt = %d, %v", n, err)
	}
	if len(*sleeps) != 0 {
		t.Fatal("write cycle waited after failed page")
	}
}

package bitcount

import (
	"fmt"
	"strconv"
	"testing"
)

func TestOnes(t *testing.T) {
	tests := []struct {
		value    byte
		expected int
	}{
		{0x00, 0},
		{0x01, 1},
		{0x80, 1},
		{0x03, 2},
		{0x55, 4},
		{0xAA, 4},
		{0x7F, 7},
		{0xFE, 7},
		{0xFF, 8},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := Ones(test.value)
			if actual != test.expected {
				t.Fatalf("expected %v ones in %08b but found %v", test.expected, test.value, actual)
			}
		})
	}
}

func TestOnesPlusZerosIsUnitBits(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		b := byte(v)
		if Ones(b)+Zeros(b) != UnitBits {
			t.Fatalf("expected ones+zeros == %v for %08b but found %v+%v", UnitBits, b, Ones(b), Zeros(b))
		}

		//count the slow way to check the fast one
		count := 0
		for x := b; x > 0; x >>= 1 {
			count += int(x & 1)
		}
		if Ones(b) != count {
			t.Fatalf("expected %v ones in %08b but found %v", count, b, Ones(b))
		}
	}
}

func TestExtremes(t *testing.T) {
	if Ones(0) != 0 || Zeros(0) != UnitBits {
		t.Fatalf("expected zero value to have no ones")
	}
	if Ones(AllOnes) != UnitBits || Zeros(AllOnes) != 0 {
		t.Fatalf("expected all ones value to have no zeros")
	}
}

func ExampleZeros() {
	fmt.Println(Ones(0xF0), Zeros(0xF0))
	//Output:
	// 4 4
}

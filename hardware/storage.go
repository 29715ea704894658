package hardware

import (
	"encoding/binary"
	"errors"
)

// ErrBeyondCapacity is returned when accessing past the end of a Storage.
var ErrBeyondCapacity = errors.New(
	"accessing physical address beyond the storage capacity")

// A Storage keeps the data of the simulated machine.
//
// A storage is an abstraction of all different type of storage including
// main memory and the paging disk.
//
// The storage implementation manages the storage in units of one page. For
// the units that are not touched by Read and Write, no memory will be
// allocated, so a storage can span the whole 32-bit physical address space.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity.
func NewStorage(capacity uint64) *Storage {
	storage := new(Storage)

	storage.unitSize = PageSize
	storage.capacity = capacity
	storage.data = make(map[uint64][]byte)

	return storage
}

// Capacity returns the number of bytes the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// createOrGetStorageUnit retrieves a storage unit if the unit has been created
// before. Otherwise it initializes a storage unit in the storage object.
func (s *Storage) createOrGetStorageUnit(address uint64) ([]byte, error) {
	if address >= s.capacity {
		return nil, ErrBeyondCapacity
	}

	baseAddr, _ := s.parseAddress(address)

	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit, nil
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address uint64, length uint64) ([]byte, error) {
	if address+length > s.capacity {
		return nil, ErrBeyondCapacity
	}

	currAddr := address
	lenLeft := length
	dataOffset := uint64(0)
	res := make([]byte, length)

	for currAddr < address+length {
		unit, err := s.createOrGetStorageUnit(currAddr)
		if err != nil {
			return nil, err
		}

		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		lenLeftInUnit := baseAddr + s.unitSize - currAddr

		lenToRead := lenLeftInUnit
		if lenLeft < lenLeftInUnit {
			lenToRead = lenLeft
		}

		copy(res[dataOffset:dataOffset+lenToRead],
			unit[inUnitAddr:inUnitAddr+lenToRead])
		lenLeft -= lenToRead
		dataOffset += lenToRead
		currAddr += lenToRead
	}

	return res, nil
}

// Write copies data into the storage starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	if address+uint64(len(data)) > s.capacity {
		return ErrBeyondCapacity
	}

	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < uint64(len(data)) {
		unit, err := s.createOrGetStorageUnit(currAddr)
		if err != nil {
			return err
		}

		_, inUnitAddr := s.parseAddress(currAddr)
		lenLeftInData := uint64(len(data)) - dataOffset
		lenLeftInUnit := s.unitSize - inUnitAddr

		lenToWrite := lenLeftInUnit
		if lenLeftInData < lenLeftInUnit {
			lenToWrite = lenLeftInData
		}

		copy(unit[inUnitAddr:inUnitAddr+lenToWrite],
			data[dataOffset:dataOffset+lenToWrite])
		dataOffset += lenToWrite
		currAddr += lenToWrite
	}

	return nil
}

// Read32 reads a little-endian word.
func (s *Storage) Read32(address uint64) (uint32, error) {
	data, err := s.Read(address, 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(data), nil
}

// Write32 writes a little-endian word.
func (s *Storage) Write32(address uint64, value uint32) error {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, value)

	return s.Write(address, data)
}

package hardware

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	It("should read and write in single unit", func() {
		storage := NewStorage(4096)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, _ := storage.Read(0, 2)
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		storage := NewStorage(8192)
		Expect(storage.Write(4094, []byte{1, 2, 3, 4})).To(Succeed())

		res, _ := storage.Read(4094, 4)
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should read zeros from untouched units", func() {
		storage := NewStorage(PhysicalAddressSpace)

		res, err := storage.Read(0x80000000, 8)

		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(make([]byte, 8)))
	})

	It("should keep words little-endian", func() {
		storage := NewStorage(4096)
		Expect(storage.Write32(8, 0x11223344)).To(Succeed())

		res, _ := storage.Read(8, 4)
		Expect(res).To(Equal([]byte{0x44, 0x33, 0x22, 0x11}))

		word, err := storage.Read32(8)
		Expect(err).NotTo(HaveOccurred())
		Expect(word).To(Equal(uint32(0x11223344)))
	})

	It("should return error if accessing over the capacity", func() {
		storage := NewStorage(4096)
		err := storage.Write(4097, []byte{1})
		Expect(err).To(MatchError(ErrBeyondCapacity))

		_, err = storage.Read(4095, 2)
		Expect(err).To(MatchError(ErrBeyondCapacity))
	})
})

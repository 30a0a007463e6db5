package abap

// Descriptor is a resolved parameter descriptor. Exactly one of
// *ScalarDescriptor, *StructureDescriptor and *TableDescriptor.
type Descriptor interface {
	Param() Parameter
	descriptor()
}

type ScalarDescriptor struct {
	Parameter
}

type StructureDescriptor struct {
	Parameter
	Fields []FieldDescriptor
}

type TableDescriptor struct {
	Parameter
	Fields []FieldDescriptor
}

func (d *ScalarDescriptor) Param() Parameter    { return d.Parameter }
func (d *StructureDescriptor) Param() Parameter { return d.Parameter }
func (d *TableDescriptor) Param() Parameter     { return d.Parameter }

func (*ScalarDescriptor) descriptor()    {}
func (*StructureDescriptor) descriptor() {}
func (*TableDescriptor) descriptor()     {}

// FieldDescriptor is a field that may itself be a structure or table.
type FieldDescriptor struct {
	Field
	Fields []FieldDescriptor
}
